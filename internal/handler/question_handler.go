package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/response"
	"github.com/quizportal/quizportal-backend/internal/service"
	"github.com/quizportal/quizportal-backend/internal/validator"
)

// QuestionHandler handles question mutations on a quiz. Questions are
// addressed by position in the quiz's list, carried in the request body.
type QuestionHandler struct {
	quizService *service.QuizService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(quizService *service.QuizService) *QuestionHandler {
	return &QuestionHandler{quizService: quizService}
}

// Add godoc
// POST /api/v1/quizzes/:quiz_id/questions
// Appends a question and returns the full updated question list.
func (h *QuestionHandler) Add(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req model.QuestionPayload
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.AddQuestion(c.Request.Context(), quizID, userID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"questions": quiz.Questions})
}

// Update godoc
// PUT /api/v1/quizzes/:quiz_id/questions
// Partially overwrites the question at questionIndex.
func (h *QuestionHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.UpdateQuestion(c.Request.Context(), quizID, userID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": quiz.Questions})
}

// Delete godoc
// DELETE /api/v1/quizzes/:quiz_id/questions
// Removes the question at questionIndex; later questions shift down.
func (h *QuestionHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req model.DeleteQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.DeleteQuestion(c.Request.Context(), quizID, userID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": quiz.Questions})
}
