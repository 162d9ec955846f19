package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const (
	defaultCatalogLimit = 20
	maxCatalogLimit     = 100
	maxDelayMinutes     = 24 * 60

	defaultPopularRoutes = 10
	maxPopularRoutes     = 20
	popularRouteWindow   = 30 * 24 * time.Hour

	defaultOperatorLimit = 50
)

type FareClassInput struct {
	Name       string   `json:"name"`
	TotalSeats int      `json:"totalSeats"`
	Price      int64    `json:"price"`
	Currency   string   `json:"currency"`
	Amenities  []string `json:"amenities"`
}

type CreateScheduleRequest struct {
	RouteID       uuid.UUID        `json:"routeId"`
	OperatorID    uuid.UUID        `json:"operatorId"`
	VehicleNumber string           `json:"vehicleNumber"`
	DepartureTime time.Time        `json:"departureTime"`
	ArrivalTime   time.Time        `json:"arrivalTime"`
	FareClasses   []FareClassInput `json:"fareClasses"`
}

type CatalogService struct {
	catalog   ports.CatalogRepository
	schedules ports.ScheduleRepository
	cache     ports.AvailabilityCache
	now       func() time.Time
}

func NewCatalogService(catalog ports.CatalogRepository, schedules ports.ScheduleRepository, cache ports.AvailabilityCache) *CatalogService {
	return &CatalogService{catalog: catalog, schedules: schedules, cache: cache, now: time.Now}
}

// WithClock replaces the service clock, for tests.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultCatalogLimit
	}
	return lo.Min([]int{limit, maxCatalogLimit})
}

func (s *CatalogService) ListDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	return s.catalog.ListDestinations(ctx, false, clampLimit(limit))
}

func (s *CatalogService) PopularDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	return s.catalog.ListDestinations(ctx, true, clampLimit(limit))
}

func (s *CatalogService) SearchDestinations(ctx context.Context, term string, limit int) ([]domain.Destination, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, domain.NewValidationError("q", "must be at least 2 characters")
	}
	return s.catalog.SearchDestinations(ctx, term, clampLimit(limit))
}

func (s *CatalogService) SearchSchedules(ctx context.Context, q domain.ScheduleQuery) ([]domain.Schedule, error) {
	q.FromCode = strings.ToUpper(strings.TrimSpace(q.FromCode))
	q.ToCode = strings.ToUpper(strings.TrimSpace(q.ToCode))
	if q.Passengers == 0 {
		q.Passengers = 1
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.Limit = clampLimit(q.Limit)

	return s.schedules.Search(ctx, q)
}

// PopularRoutes ranks routes by bookings on departures of the last 30 days.
func (s *CatalogService) PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error) {
	if limit <= 0 {
		limit = defaultPopularRoutes
	}
	limit = lo.Min([]int{limit, maxPopularRoutes})

	return s.catalog.PopularRoutes(ctx, s.now().Add(-popularRouteWindow), limit)
}

// SchedulesByRoute lists bookable departures of a route between from and to.
// A zero from means now and a zero to leaves the window open.
func (s *CatalogService) SchedulesByRoute(ctx context.Context, routeID uuid.UUID, from, to time.Time, limit int) ([]domain.Schedule, error) {
	if from.IsZero() {
		from = s.now()
	}
	if !to.IsZero() && to.Before(from) {
		return nil, domain.NewValidationError("toDate", "must not be before fromDate")
	}

	return s.schedules.List(ctx, domain.ScheduleFilter{
		RouteID:  routeID,
		Statuses: []domain.ScheduleStatus{domain.ScheduleScheduled, domain.ScheduleDelayed},
		From:     from,
		To:       to,
		Limit:    clampLimit(limit),
	})
}

// SchedulesByOperator lists the upcoming schedules an operator runs. Only
// that operator and admins may see the list.
func (s *CatalogService) SchedulesByOperator(ctx context.Context, sub domain.Subject, operatorID uuid.UUID, status domain.ScheduleStatus, limit int) ([]domain.Schedule, error) {
	res := domain.Resource{Kind: domain.ResourceSchedule, OperatorID: operatorID}
	if err := domain.Authorize(sub, res, domain.ActionUpdate); err != nil {
		return nil, err
	}

	f := domain.ScheduleFilter{OperatorID: operatorID, From: s.now(), Limit: defaultOperatorLimit}
	if limit > 0 {
		f.Limit = clampLimit(limit)
	}
	if status != "" {
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "unknown schedule status")
		}
		f.Statuses = []domain.ScheduleStatus{status}
	}

	return s.schedules.List(ctx, f)
}

func (s *CatalogService) DelayedSchedules(ctx context.Context, limit int) ([]domain.Schedule, error) {
	return s.schedules.List(ctx, domain.ScheduleFilter{
		Statuses: []domain.ScheduleStatus{domain.ScheduleDelayed},
		From:     s.now(),
		Limit:    clampLimit(limit),
	})
}

func (s *CatalogService) GetSchedule(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

// Availability reads through the cache. Cache failures only cost a trip to
// the database.
func (s *CatalogService) Availability(ctx context.Context, id uuid.UUID) (*domain.Availability, error) {
	log := logging.FromContext(ctx).WithField("schedule_id", id)

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Availability cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	availability := schedule.Availability()
	if err := s.cache.Set(ctx, availability); err != nil {
		log.WithError(err).Warn("Availability cache write failed")
	}

	return &availability, nil
}

func (s *CatalogService) CreateSchedule(ctx context.Context, sub domain.Subject, req CreateScheduleRequest) (*domain.Schedule, error) {
	operatorID := req.OperatorID
	if operatorID == uuid.Nil || sub.Role != domain.RoleAdmin {
		operatorID = sub.ID
	}

	res := domain.Resource{Kind: domain.ResourceSchedule, OperatorID: operatorID}
	if err := domain.Authorize(sub, res, domain.ActionCreate); err != nil {
		return nil, err
	}

	route, err := s.catalog.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	if !route.IsActive {
		return nil, domain.NewValidationError("routeId", "route is not active")
	}

	now := s.now()
	if !req.DepartureTime.After(now) {
		return nil, domain.NewValidationError("departureTime", "must be in the future")
	}

	classes := make(map[string]domain.FareClass, len(req.FareClasses))
	for _, in := range req.FareClasses {
		name := strings.ToLower(strings.TrimSpace(in.Name))
		if _, dup := classes[name]; dup {
			return nil, domain.NewValidationError("fareClasses", "duplicate class "+name)
		}
		classes[name] = domain.FareClass{
			Name:           name,
			TotalSeats:     in.TotalSeats,
			AvailableSeats: in.TotalSeats,
			Price:          in.Price,
			Currency:       strings.ToUpper(in.Currency),
			Amenities:      in.Amenities,
		}
	}

	schedule := &domain.Schedule{
		ID:            uuid.New(),
		RouteID:       route.ID,
		OperatorID:    operatorID,
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Status:        domain.ScheduleScheduled,
		IsActive:      true,
		FareClasses:   classes,
		TransportType: route.TransportType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"route_id":    route.ID,
		"seats":       schedule.TotalSeats(),
	}).Info("Schedule created")

	return schedule, nil
}

func (s *CatalogService) UpdateScheduleStatus(ctx context.Context, sub domain.Subject, id uuid.UUID, to domain.ScheduleStatus) (*domain.Schedule, error) {
	if !to.Valid() {
		return nil, domain.NewValidationError("status", "unknown schedule status")
	}

	schedule, err := s.loadForUpdate(ctx, sub, id)
	if err != nil {
		return nil, err
	}

	if !schedule.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition.WithMsg("schedule cannot go from %s to %s", schedule.Status, to)
	}

	delay := schedule.DelayMinutes
	if to == domain.ScheduleScheduled {
		delay = 0
	}

	return s.applyStatus(ctx, schedule, to, delay)
}

func (s *CatalogService) SetDelay(ctx context.Context, sub domain.Subject, id uuid.UUID, minutes int) (*domain.Schedule, error) {
	if minutes < 0 || minutes > maxDelayMinutes {
		return nil, domain.NewValidationError("minutes", "must be between 0 and 1440")
	}

	schedule, err := s.loadForUpdate(ctx, sub, id)
	if err != nil {
		return nil, err
	}

	if schedule.Status != domain.ScheduleScheduled && schedule.Status != domain.ScheduleDelayed {
		return nil, domain.ErrInvalidTransition.WithMsg("cannot delay a %s schedule", schedule.Status)
	}

	next := *schedule
	next.ApplyDelay(minutes)

	return s.applyStatus(ctx, schedule, next.Status, next.DelayMinutes)
}

func (s *CatalogService) loadForUpdate(ctx context.Context, sub domain.Subject, id uuid.UUID) (*domain.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(sub, domain.ScheduleResource(schedule), domain.ActionUpdate); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *CatalogService) applyStatus(ctx context.Context, schedule *domain.Schedule, to domain.ScheduleStatus, delay int) (*domain.Schedule, error) {
	from := schedule.Status

	ok, err := s.schedules.UpdateStatus(ctx, schedule.ID, from, to, delay)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidTransition.WithMsg("schedule changed concurrently")
	}

	schedule.Status = to
	schedule.DelayMinutes = delay
	schedule.UpdatedAt = s.now()

	if err := s.cache.Invalidate(ctx, schedule.ID); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Could not invalidate availability cache")
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"from":        from,
		"to":          to,
		"delay":       delay,
	}).Info("Schedule status changed")

	return schedule, nil
}
