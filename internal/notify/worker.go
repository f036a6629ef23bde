package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Worker consumes quiz_published_queue and emails each recipient. Delivery
// is at most once: a failed send is logged and never requeued, so a flaky
// SMTP server cannot wedge the queue.
type Worker struct {
	rdb    *redis.Client
	mailer Mailer
	log    zerolog.Logger
}

// NewWorker creates a new Worker.
func NewWorker(rdb *redis.Client, mailer Mailer, log zerolog.Logger) *Worker {
	return &Worker{
		rdb:    rdb,
		mailer: mailer,
		log:    log.With().Str("component", "notify_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *Worker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.QuizPublishedQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	w.handle(&event)
}

// handle emails every recipient of one event. Per-recipient failures are
// logged and skipped so one bad address does not block the rest.
func (w *Worker) handle(event *Event) {
	subject := fmt.Sprintf("New Quiz Published: %s", event.Title)
	body := renderBody(event)

	sent := 0
	for _, r := range event.Recipients {
		if err := w.mailer.Send(r.Email, subject, body); err != nil {
			w.log.Error().Err(err).
				Str("quiz_id", event.QuizID).
				Str("email", r.Email).
				Msg("failed to send notification")
			continue
		}
		sent++
	}

	w.log.Info().
		Str("quiz_id", event.QuizID).
		Int("sent", sent).
		Int("recipients", len(event.Recipients)).
		Msg("notification processed")
}

func renderBody(event *Event) string {
	description := event.Description
	if description == "" {
		description = "No description provided."
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
  <h2 style="color: #333;">New Quiz Alert!</h2>
  <p>Hello Students,</p>
  <p>A new quiz titled <strong>%q</strong> has just been published.</p>
  <p><strong>Description:</strong> %s</p>
  <p>Log in to the portal to take the quiz now.</p>
  <br>
  <p>Best regards,</p>
  <p>Quiz Platform Team</p>
</div>`, event.Title, description)
}
