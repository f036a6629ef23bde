package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/repository"
	"github.com/quizportal/quizportal-backend/internal/scoring"
	"github.com/rs/zerolog"
)

// SubmissionService handles quiz attempts: grading on submit, the
// student-facing result view, and the faculty-facing submission list.
type SubmissionService struct {
	quizzes     *QuizService
	submissions SubmissionStore
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(quizzes *QuizService, submissions SubmissionStore, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		quizzes:     quizzes,
		submissions: submissions,
		log:         log.With().Str("service", "submission").Logger(),
	}
}

// SubmitResult is what a student gets back immediately after submitting.
type SubmitResult struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"totalQuestions"`
}

// Submit grades an attempt against the quiz's answer key and stores it.
// Students may resubmit; every attempt is kept and the latest one is the
// one results report. An empty answer list is a valid attempt scoring zero.
func (s *SubmissionService) Submit(ctx context.Context, quizID uuid.UUID, student *model.User, req *model.SubmitRequest) (*SubmitResult, error) {
	quiz, err := s.quizzes.GetPublishedForStudent(ctx, quizID, student)
	if err != nil {
		return nil, err
	}

	answers := req.Answers
	if answers == nil {
		answers = []model.Answer{}
	}
	score := scoring.Score(quiz.Questions, answers)

	submission := &model.Submission{
		QuizID:    quizID,
		StudentID: student.ID,
		Answers:   answers,
		Score:     score,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quizID.String()).
		Str("student_id", student.ID.String()).
		Int("score", score).
		Msg("submission graded")

	return &SubmitResult{Score: score, TotalQuestions: len(quiz.Questions)}, nil
}

// MyResult returns the student's latest attempt with a per-question review.
// When the student has never submitted, Score and SubmittedAt are nil and
// the review carries no student answers.
func (s *SubmissionService) MyResult(ctx context.Context, quizID uuid.UUID, student *model.User) (*model.QuizResult, error) {
	quiz, err := s.quizzes.GetPublishedForStudent(ctx, quizID, student)
	if err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		QuizTitle:      quiz.Title,
		TotalQuestions: len(quiz.Questions),
		Questions:      make([]model.QuestionReview, len(quiz.Questions)),
	}

	latest, err := s.submissions.LatestByQuizAndStudent(ctx, quizID, student.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get latest submission: %w", err)
	}

	for i, q := range quiz.Questions {
		review := model.QuestionReview{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
		if latest != nil {
			review.StudentAnswer = scoring.SelectedOption(latest.Answers, i)
			review.IsCorrect = review.StudentAnswer != nil && *review.StudentAnswer == q.CorrectAnswer
		}
		result.Questions[i] = review
	}

	if latest != nil {
		score := latest.Score
		submittedAt := latest.SubmittedAt
		result.Score = &score
		result.SubmittedAt = &submittedAt
	}
	return result, nil
}

// ListForQuiz returns every submission for a quiz, newest first, with
// student identity attached. Only the quiz owner may call it.
func (s *SubmissionService) ListForQuiz(ctx context.Context, quizID, callerID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	if _, err := s.quizzes.getOwned(ctx, quizID, callerID); err != nil {
		return nil, err
	}
	subs, err := s.submissions.ListByQuizWithStudent(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
