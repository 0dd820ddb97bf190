package recommend

import (
	"context"
	"time"
)

// Task is one claimed queue entry. Receipt is the transport's delivery
// handle; it must be passed back unchanged on acknowledge.
type Task struct {
	ID      string
	Body    []byte
	Receipt string
}

// TaskQueue is the at-least-once queue transport. A received task stays
// invisible to other workers until acknowledged or its claim expires.
type TaskQueue interface {
	Enqueue(ctx context.Context, body []byte) (string, error)
	// ReceiveOne waits up to maxWait for a task. An empty queue returns
	// ok=false with a nil error; it is not a fault.
	ReceiveOne(ctx context.Context, maxWait time.Duration) (Task, bool, error)
	Acknowledge(ctx context.Context, t Task) error
}

// Hit is a search result, ordered by relevance.
type Hit struct {
	ID    string
	Score float64
}

type SearchGateway interface {
	Search(ctx context.Context, query string, poolSize int) ([]Hit, error)
}

// RestaurantStore hydrates full records by exact id. A missing record
// returns internaltypes.ErrNotFound.
type RestaurantStore interface {
	GetByID(ctx context.Context, id string) (Restaurant, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
