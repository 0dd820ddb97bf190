package usecases

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"

	"github.com/example/dining-concierge/internal/domain/booking"
	"github.com/example/dining-concierge/internal/domain/recommend"
)

const mailSubject = "Restaurant Notification"

// FulfillNext drives one queued reservation to completion: claim, search,
// sample, hydrate, compose, notify, acknowledge. The task is acknowledged
// only after the notification succeeds; any earlier failure leaves it
// claimable so the queue redelivers it. Redelivery may repeat a
// notification: the queue is at-least-once and sends are not de-duplicated.
type FulfillNext struct {
	Queue       recommend.TaskQueue
	Search      recommend.SearchGateway
	Restaurants recommend.RestaurantStore
	Mailer      recommend.Mailer

	// Zero values fall back to the defaults below.
	PoolSize    int           // candidate pool requested from search (100)
	SampleSize  int           // recommendations per email (3)
	ReceiveWait time.Duration // bounded queue wait (2s)
	Rand        *rand.Rand
	Log         *log.Logger
}

const (
	defaultPoolSize    = 100
	defaultSampleSize  = 3
	defaultReceiveWait = 2 * time.Second
)

// Outcome reports what a cycle did. Empty means the queue had no work,
// which is routine, not a failure.
type Outcome struct {
	Empty  bool
	TaskID string
}

func (u FulfillNext) Execute(ctx context.Context) (Outcome, error) {
	task, ok, err := u.Queue.ReceiveOne(ctx, u.receiveWait())
	if err != nil {
		return Outcome{}, fmt.Errorf("receive task: %w", err)
	}
	if !ok {
		return Outcome{Empty: true}, nil
	}

	if err := u.process(ctx, task); err != nil {
		// Leave the task unacknowledged; the claim expires and the queue
		// redelivers. Deleting first would turn this into data loss.
		return Outcome{TaskID: task.ID}, fmt.Errorf("task %s: %w", task.ID, err)
	}

	if err := u.Queue.Acknowledge(ctx, task); err != nil {
		return Outcome{TaskID: task.ID}, fmt.Errorf("acknowledge task %s: %w", task.ID, err)
	}
	u.logger().Info("task fulfilled", "task", task.ID)
	return Outcome{TaskID: task.ID}, nil
}

func (u FulfillNext) process(ctx context.Context, task recommend.Task) error {
	var req booking.ReservationRequest
	if err := sonic.Unmarshal(task.Body, &req); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	hits, err := u.Search.Search(ctx, req.Cuisine, u.poolSize())
	if err != nil {
		return fmt.Errorf("search %q: %w", req.Cuisine, err)
	}
	idx, err := recommend.SampleDistinct(u.rng(), len(hits), u.sampleSize())
	if err != nil {
		return err
	}

	records := make([]recommend.Restaurant, 0, len(idx))
	for _, i := range idx {
		r, err := u.Restaurants.GetByID(ctx, hits[i].ID)
		if err != nil {
			// A hit without a record is a consistency fault, not a reason
			// to quietly send fewer suggestions than promised.
			return fmt.Errorf("hydrate %s: %w", hits[i].ID, err)
		}
		records = append(records, r)
	}

	body := recommend.ComposeEmail(req.Cuisine, req.PartySize, req.Date, req.Time, records)
	if err := u.Mailer.Send(ctx, req.Email, mailSubject, body); err != nil {
		return fmt.Errorf("notify %s: %w", req.Email, err)
	}
	u.logger().Debug("notification sent", "task", task.ID, "recipient", req.Email)
	return nil
}

func (u FulfillNext) poolSize() int {
	if u.PoolSize > 0 {
		return u.PoolSize
	}
	return defaultPoolSize
}

func (u FulfillNext) sampleSize() int {
	if u.SampleSize > 0 {
		return u.SampleSize
	}
	return defaultSampleSize
}

func (u FulfillNext) receiveWait() time.Duration {
	if u.ReceiveWait > 0 {
		return u.ReceiveWait
	}
	return defaultReceiveWait
}

func (u FulfillNext) rng() *rand.Rand {
	if u.Rand != nil {
		return u.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (u FulfillNext) logger() *log.Logger {
	if u.Log != nil {
		return u.Log
	}
	return log.Default()
}
