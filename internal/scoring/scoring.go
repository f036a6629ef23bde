// Package scoring evaluates submitted answers against a quiz's answer key.
// It is a pure function over in-memory values: deterministic, no I/O.
package scoring

import "github.com/quizportal/quizportal-backend/internal/model"

// Score counts how many answers select the correct option for the question
// at their questionIndex. Unanswered questions and out-of-range indices
// contribute nothing. If the same questionIndex appears more than once, the
// last entry wins.
func Score(questions []model.Question, answers []model.Answer) int {
	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		selected[a.QuestionIndex] = a.SelectedOption
	}

	score := 0
	for i, q := range questions {
		if opt, ok := selected[i]; ok && opt == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// SelectedOption returns the option a submission picked for a question
// index, or nil if that question was left unanswered. Duplicate entries
// resolve the same way Score does.
func SelectedOption(answers []model.Answer, questionIndex int) *int {
	var picked *int
	for i := range answers {
		if answers[i].QuestionIndex == questionIndex {
			picked = &answers[i].SelectedOption
		}
	}
	return picked
}
