package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizStatus enumerates the possible states of a quiz.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
)

// Question is a single-correct-answer multiple choice question embedded in a
// quiz. Questions are index-addressed: their position in the quiz's list is
// the identity students answer against, so order is significant.
type Question struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz represents a quiz document owned by one faculty user. The question
// list is stored as a single JSONB column so every mutation is one-row
// atomic. TargetYear and TargetBranches restrict which student cohort sees
// the quiz once published; nil/empty means no restriction on that axis.
type Quiz struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"ownerId"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Questions      []Question `json:"questions"`
	TargetYear     *int       `json:"targetYear,omitempty"`
	TargetBranches []Branch   `json:"targetBranches,omitempty"`
	Status         QuizStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// QuestionForStudent is a question without the correct answer, sent to
// students taking a quiz.
type QuestionForStudent struct {
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// QuizForTaking is the answer-stripped shape served to students.
type QuizForTaking struct {
	QuizID      uuid.UUID            `json:"quizId"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Questions   []QuestionForStudent `json:"questions"`
}

// TargetsCohort reports whether a student cohort falls inside the quiz's
// target restriction. A nil target year or empty branch list leaves that
// axis unrestricted.
func (q *Quiz) TargetsCohort(year *int, branch *Branch) bool {
	if q.TargetYear != nil {
		if year == nil || *year != *q.TargetYear {
			return false
		}
	}
	if len(q.TargetBranches) > 0 {
		if branch == nil {
			return false
		}
		found := false
		for _, b := range q.TargetBranches {
			if b == *branch {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ForTaking strips every answer-revealing field from the quiz.
func (q *Quiz) ForTaking() *QuizForTaking {
	questions := make([]QuestionForStudent, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionForStudent{
			QuestionText: question.QuestionText,
			Options:      question.Options,
		}
	}
	return &QuizForTaking{
		QuizID:      q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title          string            `json:"title" binding:"required,min=1,max=255"`
	Description    string            `json:"description" binding:"omitempty,max=2000"`
	Questions      []QuestionPayload `json:"questions" binding:"omitempty,dive"`
	TargetYear     *int              `json:"targetYear" binding:"omitempty,min=1,max=4"`
	TargetBranches []Branch          `json:"targetBranches" binding:"omitempty,dive,oneof=CSE MNC MAE ECE"`
}

// UpdateQuizRequest patches quiz metadata. Pointer fields distinguish
// "absent, keep the current value" from "present but empty", which is a
// validation failure for the title.
type UpdateQuizRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// QuestionPayload is the wire shape for adding a question.
type QuestionPayload struct {
	QuestionText  string   `json:"questionText" binding:"required,min=1"`
	Options       []string `json:"options" binding:"required,min=1,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required,min=0"`
}

// UpdateQuestionRequest partially overwrites a question at a given index.
// Absent fields keep their prior value; CorrectAnswer is applied only when
// supplied and is bounds-checked against the effective option list.
type UpdateQuestionRequest struct {
	QuestionIndex *int     `json:"questionIndex" binding:"required,min=0"`
	QuestionText  *string  `json:"questionText" binding:"omitempty,min=1"`
	Options       []string `json:"options" binding:"omitempty,min=1,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"omitempty,min=0"`
}

// DeleteQuestionRequest removes the question at a positional index.
type DeleteQuestionRequest struct {
	QuestionIndex *int `json:"questionIndex" binding:"required,min=0"`
}
