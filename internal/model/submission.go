package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer records the option a student selected for the question at
// QuestionIndex. Entries with an out-of-range index are tolerated and simply
// never score.
type Answer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

// Submission is one scored attempt by a student on a quiz. Students may
// submit any number of attempts; each is stored independently and the latest
// by SubmittedAt is the one reported back to the student. Score is frozen at
// submission time: later quiz edits never rescore stored attempts.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	QuizID      uuid.UUID `json:"quizId"`
	StudentID   uuid.UUID `json:"studentId"`
	Answers     []Answer  `json:"answers"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionWithStudent joins the submitting student's identity for the
// faculty submissions listing.
type SubmissionWithStudent struct {
	Submission
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

// SubmitRequest is the payload for submitting quiz answers.
type SubmitRequest struct {
	Answers []Answer `json:"answers" binding:"omitempty,dive"`
}

// QuestionReview is one row of a student's detailed result: the question,
// the key, what the student picked, and whether it matched.
type QuestionReview struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	StudentAnswer *int     `json:"studentAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
}

// QuizResult is a student's view of their most recent attempt. A nil Score
// means the student has not submitted yet; that is a valid result, not an
// error.
type QuizResult struct {
	Score          *int             `json:"score"`
	SubmittedAt    *time.Time       `json:"submittedAt,omitempty"`
	TotalQuestions int              `json:"totalQuestions"`
	QuizTitle      string           `json:"quizTitle"`
	Questions      []QuestionReview `json:"questions,omitempty"`
}

// QuestionStat is the per-question correctness rate in quiz analytics.
type QuestionStat struct {
	QuestionText   string `json:"questionText"`
	CorrectPercent int    `json:"correctPercent"`
}

// QuizAnalytics aggregates every submission for a quiz.
type QuizAnalytics struct {
	Highest      int            `json:"highest"`
	Lowest       int            `json:"lowest"`
	Average      float64        `json:"avg"`
	Total        int            `json:"total"`
	QuestionWise []QuestionStat `json:"questionWise"`
}
