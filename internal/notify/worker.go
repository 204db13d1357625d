package notify

import (
	"context"
	"errors"
	"log"
	"time"
)

const dequeueWait = 5 * time.Second

// Worker drains the queue and hands each message to the dispatcher. One
// message at a time; a failed dispatch is counted and dropped, never retried.
type Worker struct {
	queue      *Queue
	dispatcher *Dispatcher
}

// NewWorker constructs a Worker.
func NewWorker(queue *Queue, dispatcher *Dispatcher) *Worker {
	return &Worker{queue: queue, dispatcher: dispatcher}
}

// Run blocks until ctx is cancelled, processing messages as they arrive.
func (w *Worker) Run(ctx context.Context) {
	log.Println("[notify] Worker started")
	for {
		if ctx.Err() != nil {
			log.Println("[notify] Worker stopped")
			return
		}

		m, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if errors.Is(err, ErrQueueEmpty) || ctx.Err() != nil {
				continue
			}
			log.Printf("[notify] Dequeue error: %v", err)
			continue
		}

		w.process(ctx, m)
	}
}

// DrainOnce processes up to limit queued messages synchronously and returns
// how many were handled. Used by PUT /api/notifications/process.
func (w *Worker) DrainOnce(ctx context.Context, limit int) int {
	handled := 0
	for handled < limit {
		m, err := w.queue.Dequeue(ctx, time.Millisecond)
		if err != nil {
			if !errors.Is(err, ErrQueueEmpty) {
				log.Printf("[notify] Dequeue error: %v", err)
			}
			break
		}
		w.process(ctx, m)
		handled++
	}
	return handled
}

func (w *Worker) process(ctx context.Context, m Message) {
	if err := w.dispatcher.Dispatch(ctx, m); err != nil {
		log.Printf("[notify] Dispatch %s (%s) failed: %v", m.ID, m.Type, err)
		w.queue.MarkFailed(ctx)
		return
	}
	w.queue.MarkProcessed(ctx)
}
