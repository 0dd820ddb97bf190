package usecases

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/example/dining-concierge/internal/domain/booking"
	"github.com/example/dining-concierge/internal/domain/recommend"
)

// DispatchReservation serializes a completed reservation and hands it to
// the queue. Errors propagate to the caller; a silently dropped enqueue
// would leave the user with a promise and no backing work.
type DispatchReservation struct {
	Queue recommend.TaskQueue
}

func (u DispatchReservation) Dispatch(ctx context.Context, req booking.ReservationRequest) (string, error) {
	if u.Queue == nil {
		return "", fmt.Errorf("queue is nil")
	}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("incomplete reservation: %w", err)
	}
	body, err := sonic.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode reservation: %w", err)
	}
	id, err := u.Queue.Enqueue(ctx, body)
	if err != nil {
		return "", fmt.Errorf("enqueue reservation: %w", err)
	}
	return id, nil
}
