package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/quizportal/quizportal-backend/internal/model"
)

func TestCreateQuizStartsAsDraft(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")

	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	if quiz.Status != model.QuizStatusDraft {
		t.Fatalf("expected draft status, got %s", quiz.Status)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(quiz.Questions))
	}
}

func TestCreateQuizRejectsOutOfRangeAnswer(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")

	req := &model.CreateQuizRequest{
		Title: "Bad quiz",
		Questions: []model.QuestionPayload{
			{QuestionText: "Q1", Options: []string{"a", "b"}, CorrectAnswer: intPtr(2)},
		},
	}
	_, err := env.quizService.Create(context.Background(), owner.ID, req)
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}

func TestUpdateQuizOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	other := env.addFaculty(t, "mehta")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	_, err := env.quizService.Update(context.Background(), quiz.ID, other.ID, &model.UpdateQuizRequest{
		Title: strPtr("hijacked"),
	})
	if !errors.Is(err, ErrNotQuizOwner) {
		t.Fatalf("expected ErrNotQuizOwner, got %v", err)
	}

	got, err := env.quizService.Update(context.Background(), quiz.ID, owner.ID, &model.UpdateQuizRequest{
		Title: strPtr("Signals and Systems II"),
	})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if got.Title != "Signals and Systems II" {
		t.Fatalf("title not updated: %q", got.Title)
	}
	if got.Description != "Weekly check" {
		t.Fatalf("absent field must be kept, got %q", got.Description)
	}
}

func TestTogglePublishNotifiesTargetedCohortOnce(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	inCohort := env.addStudent(t, "asha", 2, model.BranchCSE)
	env.addStudent(t, "vik", 3, model.BranchCSE)  // wrong year
	env.addStudent(t, "lena", 2, model.BranchECE) // wrong branch

	req := sampleQuizRequest()
	req.TargetYear = intPtr(2)
	req.TargetBranches = []model.Branch{model.BranchCSE}
	quiz := env.createQuiz(t, owner.ID, req)

	published, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != model.QuizStatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}

	if len(env.notifier.events) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(env.notifier.events))
	}
	recipients := env.notifier.events[0].recipients
	if len(recipients) != 1 || recipients[0].ID != inCohort.ID {
		t.Fatalf("expected only the in-cohort student notified, got %+v", recipients)
	}

	// Cache is warmed on publish.
	if !env.mr.Exists(config.CacheKey.QuizDocKey(quiz.ID.String())) {
		t.Fatal("expected quiz document cached after publish")
	}

	// Publishing again via SetPublished is a no-op with no new notification.
	if _, err := env.quizService.SetPublished(context.Background(), quiz.ID, owner.ID, true); err != nil {
		t.Fatalf("idempotent publish failed: %v", err)
	}
	if len(env.notifier.events) != 1 {
		t.Fatalf("no-op publish must not notify again, got %d events", len(env.notifier.events))
	}

	// Unpublishing drops the cache and fires nothing.
	unpublished, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID)
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if unpublished.Status != model.QuizStatusDraft {
		t.Fatalf("expected draft, got %s", unpublished.Status)
	}
	if env.mr.Exists(config.CacheKey.QuizDocKey(quiz.ID.String())) {
		t.Fatal("expected cache dropped after unpublish")
	}
	if len(env.notifier.events) != 1 {
		t.Fatalf("unpublish must not notify, got %d events", len(env.notifier.events))
	}
}

func TestGetForTakingStripsAnswers(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	student := env.addStudent(t, "asha", 2, model.BranchCSE)
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	// Draft quizzes look missing to students.
	_, err := env.quizService.GetForTaking(context.Background(), quiz.ID, student)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for draft, got %v", err)
	}

	if _, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	got, err := env.quizService.GetForTaking(context.Background(), quiz.ID, student)
	if err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.QuestionText == "" || len(q.Options) == 0 {
			t.Fatalf("question %d incomplete: %+v", i, q)
		}
	}
}

func TestGetForTakingHidesUntargetedQuiz(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	outsider := env.addStudent(t, "vik", 3, model.BranchECE)

	req := sampleQuizRequest()
	req.TargetYear = intPtr(2)
	req.TargetBranches = []model.Branch{model.BranchCSE}
	quiz := env.createQuiz(t, owner.ID, req)
	if _, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	_, err := env.quizService.GetForTaking(context.Background(), quiz.ID, outsider)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("untargeted student must see not-found, got %v", err)
	}
}

func TestListAvailableFiltersByCohort(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	student := env.addStudent(t, "asha", 2, model.BranchCSE)

	open := env.createQuiz(t, owner.ID, sampleQuizRequest())
	targeted := sampleQuizRequest()
	targeted.Title = "ECE only"
	targeted.TargetBranches = []model.Branch{model.BranchECE}
	hidden := env.createQuiz(t, owner.ID, targeted)

	if _, err := env.quizService.TogglePublish(context.Background(), open.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := env.quizService.TogglePublish(context.Background(), hidden.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	quizzes, err := env.quizService.ListAvailable(context.Background(), student)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].QuizID != open.ID {
		t.Fatalf("expected only the unrestricted quiz, got %+v", quizzes)
	}
}

func TestQuestionMutations(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())

	// Append.
	updated, err := env.quizService.AddQuestion(context.Background(), quiz.ID, owner.ID, &model.QuestionPayload{
		QuestionText:  "Q4",
		Options:       []string{"x", "y", "z"},
		CorrectAnswer: intPtr(2),
	})
	if err != nil {
		t.Fatalf("add question failed: %v", err)
	}
	if len(updated.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(updated.Questions))
	}

	// Partial update keeps absent fields.
	updated, err = env.quizService.UpdateQuestion(context.Background(), quiz.ID, owner.ID, &model.UpdateQuestionRequest{
		QuestionIndex: intPtr(3),
		QuestionText:  strPtr("Q4 revised"),
	})
	if err != nil {
		t.Fatalf("update question failed: %v", err)
	}
	q := updated.Questions[3]
	if q.QuestionText != "Q4 revised" || len(q.Options) != 3 || q.CorrectAnswer != 2 {
		t.Fatalf("partial update corrupted question: %+v", q)
	}

	// Shrinking options below the carried-over answer fails.
	_, err = env.quizService.UpdateQuestion(context.Background(), quiz.ID, owner.ID, &model.UpdateQuestionRequest{
		QuestionIndex: intPtr(3),
		Options:       []string{"only"},
	})
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}

	// Out-of-range index.
	_, err = env.quizService.UpdateQuestion(context.Background(), quiz.ID, owner.ID, &model.UpdateQuestionRequest{
		QuestionIndex: intPtr(9),
		QuestionText:  strPtr("nope"),
	})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	// Delete shifts later questions down.
	updated, err = env.quizService.DeleteQuestion(context.Background(), quiz.ID, owner.ID, &model.DeleteQuestionRequest{
		QuestionIndex: intPtr(0),
	})
	if err != nil {
		t.Fatalf("delete question failed: %v", err)
	}
	if len(updated.Questions) != 3 || updated.Questions[0].QuestionText != "Q2" {
		t.Fatalf("delete did not shift questions: %+v", updated.Questions)
	}

	_, err = env.quizService.DeleteQuestion(context.Background(), quiz.ID, owner.ID, &model.DeleteQuestionRequest{
		QuestionIndex: intPtr(5),
	})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound for out-of-range delete, got %v", err)
	}
}

func TestDeleteQuizDropsCache(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addFaculty(t, "rao")
	quiz := env.createQuiz(t, owner.ID, sampleQuizRequest())
	if _, err := env.quizService.TogglePublish(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := env.quizService.Delete(context.Background(), quiz.ID, owner.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if env.mr.Exists(config.CacheKey.QuizDocKey(quiz.ID.String())) {
		t.Fatal("expected cache dropped on delete")
	}
	if err := env.quizService.Delete(context.Background(), quiz.ID, owner.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound on second delete, got %v", err)
	}
}
