package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizportal/quizportal-backend/internal/model"
)

// SubmissionRepository handles submission data access. Submissions are
// append-only: one row per attempt, never updated or deleted.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a new scored submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	if s.Answers == nil {
		s.Answers = []model.Answer{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (quiz_id, student_id, answers, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, submitted_at`,
		s.QuizID, s.StudentID, s.Answers, s.Score,
	).Scan(&s.ID, &s.SubmittedAt)
}

// LatestByQuizAndStudent retrieves the most recent attempt for a
// (quiz, student) pair. Returns ErrNotFound when the student has none.
func (r *SubmissionRepository) LatestByQuizAndStudent(ctx context.Context, quizID, studentID uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, student_id, answers, score, submitted_at
		 FROM submissions
		 WHERE quiz_id = $1 AND student_id = $2
		 ORDER BY submitted_at DESC
		 LIMIT 1`, quizID, studentID,
	).Scan(&s.ID, &s.QuizID, &s.StudentID, &s.Answers, &s.Score, &s.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListByQuiz retrieves every submission for a quiz, oldest first.
func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, student_id, answers, score, submitted_at
		 FROM submissions
		 WHERE quiz_id = $1
		 ORDER BY submitted_at`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.QuizID, &s.StudentID, &s.Answers, &s.Score, &s.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// ListByQuizWithStudent retrieves submissions joined with the submitting
// student's name and email for the faculty view.
func (r *SubmissionRepository) ListByQuizWithStudent(ctx context.Context, quizID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.quiz_id, s.student_id, s.answers, s.score, s.submitted_at,
		        u.name, u.email
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.quiz_id = $1
		 ORDER BY s.submitted_at DESC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubmissionWithStudent
	for rows.Next() {
		var s model.SubmissionWithStudent
		if err := rows.Scan(&s.ID, &s.QuizID, &s.StudentID, &s.Answers, &s.Score, &s.SubmittedAt,
			&s.StudentName, &s.StudentEmail); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
