package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/scoring"
)

// AnalyticsService computes faculty-facing aggregates over a quiz's
// submissions.
type AnalyticsService struct {
	quizzes     *QuizService
	submissions SubmissionStore
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(quizzes *QuizService, submissions SubmissionStore) *AnalyticsService {
	return &AnalyticsService{quizzes: quizzes, submissions: submissions}
}

// ForQuiz aggregates score statistics and per-question correctness for the
// owner's quiz. A quiz with no submissions yields (nil, nil); the handler
// turns that into an informational response rather than an error.
func (s *AnalyticsService) ForQuiz(ctx context.Context, quizID, callerID uuid.UUID) (*model.QuizAnalytics, error) {
	quiz, err := s.quizzes.getOwned(ctx, quizID, callerID)
	if err != nil {
		return nil, err
	}

	subs, err := s.submissions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if len(subs) == 0 {
		return nil, nil
	}

	highest := subs[0].Score
	lowest := subs[0].Score
	sum := 0
	for _, sub := range subs {
		if sub.Score > highest {
			highest = sub.Score
		}
		if sub.Score < lowest {
			lowest = sub.Score
		}
		sum += sub.Score
	}

	analytics := &model.QuizAnalytics{
		Highest: highest,
		Lowest:  lowest,
		// Mean rounded to one decimal place.
		Average:      math.Round(float64(sum)/float64(len(subs))*10) / 10,
		Total:        len(subs),
		QuestionWise: make([]model.QuestionStat, len(quiz.Questions)),
	}

	for i, q := range quiz.Questions {
		correct := 0
		for _, sub := range subs {
			if selected := scoring.SelectedOption(sub.Answers, i); selected != nil && *selected == q.CorrectAnswer {
				correct++
			}
		}
		analytics.QuestionWise[i] = model.QuestionStat{
			QuestionText:   q.QuestionText,
			CorrectPercent: int(math.Round(float64(correct) / float64(len(subs)) * 100)),
		}
	}
	return analytics, nil
}
