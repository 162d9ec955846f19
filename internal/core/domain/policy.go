package domain

import "github.com/google/uuid"

// Subject is the authenticated caller.
type Subject struct {
	ID   uuid.UUID
	Role Role
}

func (s Subject) IsStaff() bool {
	return s.Role == RoleAdmin || s.Role == RoleOperator
}

type ResourceKind string

const (
	ResourceBooking  ResourceKind = "booking"
	ResourceSchedule ResourceKind = "schedule"
	ResourceCatalog  ResourceKind = "catalog"
	ResourceTicket   ResourceKind = "ticket"
)

type Action string

const (
	ActionRead     Action = "read"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Resource describes what is being accessed. OwnerID is the booking owner,
// OperatorID the operator of the schedule the resource belongs to.
type Resource struct {
	Kind       ResourceKind
	OwnerID    uuid.UUID
	OperatorID uuid.UUID
}

func BookingResource(b *Booking, operatorID uuid.UUID) Resource {
	return Resource{Kind: ResourceBooking, OwnerID: b.UserID, OperatorID: operatorID}
}

func ScheduleResource(s *Schedule) Resource {
	return Resource{Kind: ResourceSchedule, OperatorID: s.OperatorID}
}

// Can evaluates the fixed capability table:
// admin may do anything, operators act on schedules they run and the
// bookings made on them, users act on their own bookings and read the catalog.
func Can(sub Subject, res Resource, act Action) bool {
	switch sub.Role {
	case RoleAdmin:
		return true
	case RoleOperator:
		switch res.Kind {
		case ResourceCatalog:
			return act == ActionRead
		case ResourceSchedule:
			return res.OperatorID == sub.ID
		case ResourceBooking, ResourceTicket:
			if res.OwnerID == sub.ID {
				return true
			}
			return res.OperatorID == sub.ID && (act == ActionRead || act == ActionComplete || act == ActionUpdate)
		}
	case RoleUser:
		switch res.Kind {
		case ResourceCatalog, ResourceSchedule:
			return act == ActionRead
		case ResourceBooking:
			if res.OwnerID != sub.ID {
				return false
			}
			return act == ActionRead || act == ActionCreate || act == ActionUpdate || act == ActionCancel
		case ResourceTicket:
			return res.OwnerID == sub.ID && act == ActionRead
		}
	}
	return false
}

// Authorize turns a denied capability into the error the caller should see.
// Reads of someone else's resource look like a missing resource.
func Authorize(sub Subject, res Resource, act Action) error {
	if Can(sub, res, act) {
		return nil
	}
	if act == ActionRead {
		return NewNotFoundError(string(res.Kind))
	}
	return ErrForbidden
}
