package notify

import (
	"context"
	"encoding/json"

	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Dispatcher enqueues quiz-published events to the Redis work queue. It
// satisfies the quiz service's Notifier interface.
type Dispatcher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(rdb *redis.Client, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		rdb: rdb,
		log: log.With().Str("component", "notify_dispatcher").Logger(),
	}
}

// QuizPublished enqueues one event covering every recipient. Errors are
// logged and swallowed: notification is best effort.
func (d *Dispatcher) QuizPublished(ctx context.Context, quiz *model.Quiz, recipients []model.User) {
	event := Event{
		QuizID:      quiz.ID.String(),
		Title:       quiz.Title,
		Description: quiz.Description,
		Recipients:  make([]Recipient, 0, len(recipients)),
	}
	for _, r := range recipients {
		event.Recipients = append(event.Recipients, Recipient{Name: r.Name, Email: r.Email})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.log.Error().Err(err).Str("quiz_id", event.QuizID).Msg("failed to encode notification event")
		return
	}
	if err := d.rdb.RPush(ctx, config.WorkerKey.QuizPublishedQueue, payload).Err(); err != nil {
		d.log.Error().Err(err).Str("quiz_id", event.QuizID).Msg("failed to enqueue notification event")
		return
	}
	d.log.Info().Str("quiz_id", event.QuizID).Int("recipients", len(event.Recipients)).Msg("notification enqueued")
}
