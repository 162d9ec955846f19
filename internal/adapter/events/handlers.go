package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
)

type RefundProcessor interface {
	ProcessRefund(ctx context.Context, event *domain.RefundRequested) error
}

func RefundHandler(payments RefundProcessor) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"payments.ProcessRefund",
		func(ctx context.Context, event *domain.RefundRequested) error {
			return payments.ProcessRefund(ctx, event)
		},
	)
}
