package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QuizService owns the quiz lifecycle: authoring, question edits, the
// publish toggle, and the answer-stripped view students take quizzes from.
// Published quiz documents are cached in Redis so the student read path
// rarely touches Postgres.
type QuizService struct {
	quizzes  QuizStore
	users    UserStore
	rdb      *redis.Client
	notifier Notifier
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, users UserStore, rdb *redis.Client, notifier Notifier, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		users:    users,
		rdb:      rdb,
		notifier: notifier,
		log:      log.With().Str("service", "quiz").Logger(),
	}
}

// Create stores a new draft quiz owned by the given faculty user. Questions
// may be supplied inline; each is validated the same way AddQuestion
// validates.
func (s *QuizService) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreateQuizRequest) (*model.Quiz, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, payload := range req.Questions {
		q, err := buildQuestion(&payload)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, *q)
	}

	quiz := &model.Quiz{
		OwnerID:        ownerID,
		Title:          req.Title,
		Description:    req.Description,
		Questions:      questions,
		TargetYear:     req.TargetYear,
		TargetBranches: req.TargetBranches,
		Status:         model.QuizStatusDraft,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// Update patches quiz metadata. Absent fields keep their current value.
func (s *QuizService) Update(ctx context.Context, quizID, callerID uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	return s.mutate(ctx, quizID, callerID, func(q *model.Quiz) error {
		if req.Title != nil {
			q.Title = *req.Title
		}
		if req.Description != nil {
			q.Description = *req.Description
		}
		return nil
	})
}

// Delete removes a quiz, its cached document, and implicitly its
// submissions (cascade at the storage layer).
func (s *QuizService) Delete(ctx context.Context, quizID, callerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, quizID, callerID); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.dropCache(ctx, quizID)
	return nil
}

// SetPublished toggles the publish state. The draft-to-published transition
// warms the cache and notifies the targeted student cohort; the reverse
// transition drops the cache. Setting the current state is a no-op.
func (s *QuizService) SetPublished(ctx context.Context, quizID, callerID uuid.UUID, published bool) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}

	target := model.QuizStatusDraft
	if published {
		target = model.QuizStatusPublished
	}
	if quiz.Status == target {
		return quiz, nil
	}

	quiz, err = s.mutate(ctx, quizID, callerID, func(q *model.Quiz) error {
		q.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	if published {
		s.warmCache(ctx, quiz)
		s.notifyCohort(ctx, quiz)
	} else {
		s.dropCache(ctx, quizID)
	}
	return quiz, nil
}

// TogglePublish flips the publish state and returns the updated quiz.
func (s *QuizService) TogglePublish(ctx context.Context, quizID, callerID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}
	return s.SetPublished(ctx, quizID, callerID, quiz.Status != model.QuizStatusPublished)
}

// AddQuestion appends a question to the quiz.
func (s *QuizService) AddQuestion(ctx context.Context, quizID, callerID uuid.UUID, req *model.QuestionPayload) (*model.Quiz, error) {
	return s.mutate(ctx, quizID, callerID, func(q *model.Quiz) error {
		question, err := buildQuestion(req)
		if err != nil {
			return err
		}
		q.Questions = append(q.Questions, *question)
		return nil
	})
}

// UpdateQuestion partially overwrites the question at req.QuestionIndex.
// The correct answer, whether newly supplied or carried over, must stay in
// bounds of the effective option list.
func (s *QuizService) UpdateQuestion(ctx context.Context, quizID, callerID uuid.UUID, req *model.UpdateQuestionRequest) (*model.Quiz, error) {
	return s.mutate(ctx, quizID, callerID, func(q *model.Quiz) error {
		idx := *req.QuestionIndex
		if idx < 0 || idx >= len(q.Questions) {
			return ErrQuestionNotFound
		}

		question := q.Questions[idx]
		if req.QuestionText != nil {
			question.QuestionText = *req.QuestionText
		}
		if req.Options != nil {
			question.Options = req.Options
		}
		if req.CorrectAnswer != nil {
			question.CorrectAnswer = *req.CorrectAnswer
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return fmt.Errorf("%w: correct answer %d out of range for %d options",
				ErrInvalidQuestion, question.CorrectAnswer, len(question.Options))
		}

		q.Questions[idx] = question
		return nil
	})
}

// DeleteQuestion removes the question at req.QuestionIndex, shifting later
// questions down one position.
func (s *QuizService) DeleteQuestion(ctx context.Context, quizID, callerID uuid.UUID, req *model.DeleteQuestionRequest) (*model.Quiz, error) {
	return s.mutate(ctx, quizID, callerID, func(q *model.Quiz) error {
		idx := *req.QuestionIndex
		if idx < 0 || idx >= len(q.Questions) {
			return ErrQuestionNotFound
		}
		q.Questions = append(q.Questions[:idx], q.Questions[idx+1:]...)
		return nil
	})
}

// ListOwned returns every quiz the faculty user has created, drafts
// included.
func (s *QuizService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Quiz, error) {
	quizzes, err := s.quizzes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// ListAvailable returns the answer-stripped published quizzes targeting the
// student's cohort.
func (s *QuizService) ListAvailable(ctx context.Context, student *model.User) ([]model.QuizForTaking, error) {
	if student.Year == nil || student.Branch == nil {
		return []model.QuizForTaking{}, nil
	}

	quizzes, err := s.quizzes.ListPublishedForCohort(ctx, *student.Year, *student.Branch)
	if err != nil {
		return nil, fmt.Errorf("list published quizzes: %w", err)
	}

	out := make([]model.QuizForTaking, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, *quizzes[i].ForTaking())
	}
	return out, nil
}

// GetForTaking serves the answer-stripped quiz to a student. Unpublished
// quizzes and quizzes not targeting the student's cohort are
// indistinguishable from missing ones.
func (s *QuizService) GetForTaking(ctx context.Context, quizID uuid.UUID, student *model.User) (*model.QuizForTaking, error) {
	quiz, err := s.getPublished(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.TargetsCohort(student.Year, student.Branch) {
		return nil, ErrQuizNotFound
	}
	return quiz.ForTaking(), nil
}

// GetPublishedForStudent loads the full published quiz after verifying the
// student's cohort is targeted. The submission and result paths use it; the
// caller must not leak answer fields to the client.
func (s *QuizService) GetPublishedForStudent(ctx context.Context, quizID uuid.UUID, student *model.User) (*model.Quiz, error) {
	quiz, err := s.getPublished(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.TargetsCohort(student.Year, student.Branch) {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

// getPublished resolves a published quiz, cache first. Cache misses fall
// back to the database and re-warm the cache.
func (s *QuizService) getPublished(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.QuizDocKey(quizID.String())).Result()
		if err == nil {
			var quiz model.Quiz
			if jsonErr := json.Unmarshal([]byte(raw), &quiz); jsonErr == nil {
				return &quiz, nil
			}
			s.log.Warn().Str("quiz_id", quizID.String()).Msg("corrupt cached quiz document, falling back to database")
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("quiz cache read failed, falling back to database")
		}
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotFound
	}

	s.warmCache(ctx, quiz)
	return quiz, nil
}

// getOwned loads a quiz and enforces ownership. Missing quizzes win over
// ownership failures so non-owners cannot probe for existence.
func (s *QuizService) getOwned(ctx context.Context, quizID, callerID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.OwnerID != callerID {
		return nil, ErrNotQuizOwner
	}
	return quiz, nil
}

// mutate applies fn to the owned quiz and persists it under the optimistic
// concurrency guard, retrying once on a stale write. Any successful
// mutation drops the cached document; SetPublished re-warms it when
// appropriate.
func (s *QuizService) mutate(ctx context.Context, quizID, callerID uuid.UUID, fn func(*model.Quiz) error) (*model.Quiz, error) {
	for attempt := 0; ; attempt++ {
		quiz, err := s.getOwned(ctx, quizID, callerID)
		if err != nil {
			return nil, err
		}
		if err := fn(quiz); err != nil {
			return nil, err
		}

		err = s.quizzes.Update(ctx, quiz)
		if err == nil {
			s.dropCache(ctx, quizID)
			return quiz, nil
		}
		if errors.Is(err, repository.ErrStaleQuiz) && attempt == 0 {
			s.log.Debug().Str("quiz_id", quizID.String()).Msg("concurrent quiz update, retrying")
			continue
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("update quiz: %w", err)
	}
}

func (s *QuizService) warmCache(ctx context.Context, quiz *model.Quiz) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(quiz)
	if err != nil {
		s.log.Error().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to encode quiz for cache")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizDocKey(quiz.ID.String()), payload, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to warm quiz cache")
	}
}

func (s *QuizService) dropCache(ctx context.Context, quizID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizDocKey(quizID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("failed to drop quiz cache")
	}
}

// notifyCohort resolves the targeted students and hands them to the
// notifier. Failures are logged, never surfaced: publishing must not fail
// because email did.
func (s *QuizService) notifyCohort(ctx context.Context, quiz *model.Quiz) {
	if s.notifier == nil {
		return
	}
	recipients, err := s.users.ListStudentsByCohort(ctx, quiz.TargetYear, quiz.TargetBranches)
	if err != nil {
		s.log.Error().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to resolve notification recipients")
		return
	}
	if len(recipients) == 0 {
		return
	}
	s.notifier.QuizPublished(ctx, quiz, recipients)
}

// buildQuestion validates a question payload and converts it to the stored
// shape.
func buildQuestion(req *model.QuestionPayload) (*model.Question, error) {
	answer := *req.CorrectAnswer
	if answer < 0 || answer >= len(req.Options) {
		return nil, fmt.Errorf("%w: correct answer %d out of range for %d options",
			ErrInvalidQuestion, answer, len(req.Options))
	}
	return &model.Question{
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: answer,
	}, nil
}
