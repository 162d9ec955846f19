package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/platform/logging"
	"github.com/srgjo27/transit_ticket/internal/platform/metrics"
)

// RunBackgroundCleanup expires lapsed holds every SweepInterval until ctx is
// done. Several instances may run at once: a booking another instance
// already moved out of pending is skipped.
func (s *BookingService) RunBackgroundCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	log := logging.FromContext(ctx).WithField("component", "expiry_sweeper")
	log.WithField("interval", s.cfg.SweepInterval).Info("Background worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Background worker stopped")
			return
		case <-ticker.C:
			s.SweepExpired(ctx)
		}
	}
}

// SweepExpired runs one sweeper pass and returns how many bookings it
// expired. A failing booking is logged and left for the next pass.
func (s *BookingService) SweepExpired(ctx context.Context) int {
	log := logging.FromContext(ctx).WithField("component", "expiry_sweeper")
	total := 0

	for ctx.Err() == nil {
		ids, err := s.bookings.GetExpiredBookings(ctx, s.cfg.Now(), s.cfg.SweepBatch)
		if err != nil {
			log.WithError(err).Error("Error fetching expired bookings")
			return total
		}

		if len(ids) == 0 {
			return total
		}

		log.WithField("count", len(ids)).Info("Found expired bookings, cleaning up")

		expired := 0
		for _, id := range ids {
			ok, err := s.ExpireBooking(ctx, id)
			if err != nil {
				metrics.SweeperFailures.Inc()
				log.WithError(err).WithField("booking_id", id).Warn("Failed to expire booking")
				continue
			}
			if !ok {
				log.WithField("booking_id", id).Debug("Booking no longer pending, skipped")
				continue
			}

			expired++
			metrics.SweeperExpired.Inc()
		}

		total += expired

		if len(ids) < s.cfg.SweepBatch || expired == 0 {
			break
		}
	}

	if total > 0 {
		log.WithFields(logrus.Fields{"expired": total}).Info("Expired bookings released")
	}

	return total
}
