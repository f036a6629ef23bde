package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/response"
	"github.com/quizportal/quizportal-backend/internal/service"
	"github.com/quizportal/quizportal-backend/internal/validator"
)

// SubmissionHandler handles the student-facing quiz taking endpoints.
type SubmissionHandler struct {
	quizService   *service.QuizService
	submissionSvc *service.SubmissionService
	authService   *service.AuthService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(
	quizService *service.QuizService,
	submissionSvc *service.SubmissionService,
	authService *service.AuthService,
) *SubmissionHandler {
	return &SubmissionHandler{
		quizService:   quizService,
		submissionSvc: submissionSvc,
		authService:   authService,
	}
}

// Take godoc
// GET /api/v1/quizzes/:quiz_id/take
// Serves the answer-stripped quiz to a targeted student.
func (h *SubmissionHandler) Take(c *gin.Context) {
	student, ok := h.loadStudent(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetForTaking(c.Request.Context(), quizID, student)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Submit godoc
// POST /api/v1/quizzes/:quiz_id/submit
// Grades and stores an attempt, returning the score.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	student, ok := h.loadStudent(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionSvc.Submit(c.Request.Context(), quizID, student, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"score": result.Score, "totalQuestions": result.TotalQuestions})
}

// MyResult godoc
// GET /api/v1/quizzes/:quiz_id/my-result
// Returns the student's latest attempt with per-question review, or a
// null score when the student has never submitted.
func (h *SubmissionHandler) MyResult(c *gin.Context) {
	student, ok := h.loadStudent(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	result, err := h.submissionSvc.MyResult(c.Request.Context(), quizID, student)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// loadStudent resolves the authenticated student's full record; the cohort
// fields on it drive targeting checks.
func (h *SubmissionHandler) loadStudent(c *gin.Context) (*model.User, bool) {
	userID, ok := callerID(c)
	if !ok {
		return nil, false
	}
	student, err := h.authService.GetByID(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return nil, false
	}
	return student, true
}
