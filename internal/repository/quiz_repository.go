package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizportal/quizportal-backend/internal/model"
)

// QuizRepository handles quiz data access. A quiz row carries its question
// list as one JSONB column, so every mutation is single-row atomic and
// concurrent writers are serialized by the updated_at optimistic guard.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, owner_id, title, description, questions, target_year, target_branches, status, created_at, updated_at`

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	q := &model.Quiz{}
	var branches []string
	err := row.Scan(&q.ID, &q.OwnerID, &q.Title, &q.Description, &q.Questions,
		&q.TargetYear, &branches, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	q.TargetBranches = toBranches(branches)
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	return q, nil
}

func toBranches(raw []string) []model.Branch {
	if len(raw) == 0 {
		return nil
	}
	branches := make([]model.Branch, len(raw))
	for i, b := range raw {
		branches[i] = model.Branch(b)
	}
	return branches
}

func fromBranches(branches []model.Branch) []string {
	raw := make([]string, len(branches))
	for i, b := range branches {
		raw[i] = string(b)
	}
	return raw
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (owner_id, title, description, questions, target_year, target_branches, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		q.OwnerID, q.Title, q.Description, q.Questions, q.TargetYear, fromBranches(q.TargetBranches), q.Status,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// Update writes the full quiz document back, guarded by the updated_at value
// the caller read. Returns ErrStaleQuiz if another writer got there first.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, questions = $3,
		     target_year = $4, target_branches = $5, status = $6,
		     updated_at = NOW()
		 WHERE id = $7 AND updated_at = $8
		 RETURNING updated_at`,
		q.Title, q.Description, q.Questions,
		q.TargetYear, fromBranches(q.TargetBranches), q.Status,
		q.ID, q.UpdatedAt,
	).Scan(&q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row missing or updated_at moved; disambiguate for the caller.
			if _, getErr := r.GetByID(ctx, q.ID); getErr != nil {
				return getErr
			}
			return ErrStaleQuiz
		}
		return err
	}
	return nil
}

// Delete removes a quiz by ID. Returns ErrNotFound if no row was deleted.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner retrieves all quizzes owned by a faculty user, any status.
func (r *QuizRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectQuizzes(rows)
}

// ListPublishedForCohort retrieves published quizzes visible to a student
// cohort: no target restriction, or a restriction the cohort satisfies.
func (r *QuizRepository) ListPublishedForCohort(ctx context.Context, year int, branch model.Branch) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes
		 WHERE status = $1
		   AND (target_year IS NULL OR target_year = $2)
		   AND (cardinality(target_branches) = 0 OR $3 = ANY(target_branches))
		 ORDER BY created_at DESC`,
		model.QuizStatusPublished, year, string(branch))
	if err != nil {
		return nil, err
	}
	return collectQuizzes(rows)
}

func collectQuizzes(rows pgx.Rows) ([]model.Quiz, error) {
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		var branches []string
		if err := rows.Scan(&q.ID, &q.OwnerID, &q.Title, &q.Description, &q.Questions,
			&q.TargetYear, &branches, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		q.TargetBranches = toBranches(branches)
		if q.Questions == nil {
			q.Questions = []model.Question{}
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}
