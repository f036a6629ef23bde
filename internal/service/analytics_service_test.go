package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quizportal/quizportal-backend/internal/model"
)

func TestAnalyticsEmptyQuiz(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	analytics, err := env.analytics.ForQuiz(context.Background(), quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if analytics != nil {
		t.Fatalf("expected nil analytics with no submissions, got %+v", analytics)
	}
}

func TestAnalyticsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	other := env.addFaculty(t, "mehta")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	if _, err := env.analytics.ForQuiz(context.Background(), quiz.ID, other.ID); !errors.Is(err, ErrNotQuizOwner) {
		t.Fatalf("expected ErrNotQuizOwner, got %v", err)
	}
}

func TestAnalyticsAggregation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())
	if _, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// Key is [1, 0, 2]. Four students score 3, 2, 1, 0.
	attempts := []struct {
		name    string
		answers []model.Answer
	}{
		{"s1", []model.Answer{
			{QuestionIndex: 0, SelectedOption: 1},
			{QuestionIndex: 1, SelectedOption: 0},
			{QuestionIndex: 2, SelectedOption: 2},
		}},
		{"s2", []model.Answer{
			{QuestionIndex: 0, SelectedOption: 1},
			{QuestionIndex: 1, SelectedOption: 0},
			{QuestionIndex: 2, SelectedOption: 0},
		}},
		{"s3", []model.Answer{
			{QuestionIndex: 0, SelectedOption: 1},
			{QuestionIndex: 1, SelectedOption: 1},
			{QuestionIndex: 2, SelectedOption: 0},
		}},
		{"s4", []model.Answer{
			{QuestionIndex: 0, SelectedOption: 0},
			{QuestionIndex: 1, SelectedOption: 1},
			{QuestionIndex: 2, SelectedOption: 0},
		}},
	}
	for _, a := range attempts {
		student := env.addStudent(t, a.name, 2, model.BranchCSE)
		if _, err := env.subService.Submit(context.Background(), quiz.ID, student, &model.SubmitRequest{Answers: a.answers}); err != nil {
			t.Fatalf("submit for %s failed: %v", a.name, err)
		}
	}

	analytics, err := env.analytics.ForQuiz(context.Background(), quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}

	if analytics.Total != 4 {
		t.Fatalf("total = %d, want 4", analytics.Total)
	}
	if analytics.Highest != 3 || analytics.Lowest != 0 {
		t.Fatalf("highest/lowest = %d/%d, want 3/0", analytics.Highest, analytics.Lowest)
	}
	// Mean of 3,2,1,0 is 1.5.
	if analytics.Average != 1.5 {
		t.Fatalf("avg = %v, want 1.5", analytics.Average)
	}

	// Q1 correct by s1,s2,s3 (75%), Q2 by s1,s2 (50%), Q3 by s1 (25%).
	wantPercents := []int{75, 50, 25}
	if len(analytics.QuestionWise) != 3 {
		t.Fatalf("expected 3 question stats, got %d", len(analytics.QuestionWise))
	}
	for i, want := range wantPercents {
		if got := analytics.QuestionWise[i].CorrectPercent; got != want {
			t.Fatalf("question %d percent = %d, want %d", i, got, want)
		}
	}
}

func TestAnalyticsMeanRounding(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())
	if _, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// Scores 1, 1, 2: mean 1.333... rounds to 1.3.
	answerSets := [][]model.Answer{
		{{QuestionIndex: 0, SelectedOption: 1}},
		{{QuestionIndex: 1, SelectedOption: 0}},
		{{QuestionIndex: 0, SelectedOption: 1}, {QuestionIndex: 1, SelectedOption: 0}},
	}
	for i, answers := range answerSets {
		student := env.addStudent(t, string(rune('a'+i))+"-student", 2, model.BranchCSE)
		if _, err := env.subService.Submit(context.Background(), quiz.ID, student, &model.SubmitRequest{Answers: answers}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	analytics, err := env.analytics.ForQuiz(context.Background(), quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if analytics.Average != 1.3 {
		t.Fatalf("avg = %v, want 1.3", analytics.Average)
	}
}
