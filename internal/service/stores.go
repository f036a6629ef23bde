package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quizportal/quizportal-backend/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory implementations.

// UserStore is the identity store: account records and cohort lookups.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListStudentsByCohort(ctx context.Context, year *int, branches []model.Branch) ([]model.User, error)
}

// QuizStore is the durable quiz document store.
type QuizStore interface {
	Create(ctx context.Context, q *model.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	Update(ctx context.Context, q *model.Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Quiz, error)
	ListPublishedForCohort(ctx context.Context, year int, branch model.Branch) ([]model.Quiz, error)
}

// SubmissionStore is the append-only attempt store.
type SubmissionStore interface {
	Create(ctx context.Context, s *model.Submission) error
	LatestByQuizAndStudent(ctx context.Context, quizID, studentID uuid.UUID) (*model.Submission, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Submission, error)
	ListByQuizWithStudent(ctx context.Context, quizID uuid.UUID) ([]model.SubmissionWithStudent, error)
}

// Notifier is invoked on the draft-to-published transition. Implementations
// are fire-and-forget: they must never fail the publish, so the method
// returns nothing and errors are handled internally.
type Notifier interface {
	QuizPublished(ctx context.Context, quiz *model.Quiz, recipients []model.User)
}
