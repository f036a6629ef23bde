package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizportal/quizportal-backend/internal/middleware"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/response"
	"github.com/quizportal/quizportal-backend/internal/service"
	"github.com/quizportal/quizportal-backend/internal/validator"
)

// QuizHandler handles the faculty quiz management endpoints plus the
// role-filtered quiz listing.
type QuizHandler struct {
	quizService      *service.QuizService
	authService      *service.AuthService
	submissionSvc    *service.SubmissionService
	analyticsService *service.AnalyticsService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	quizService *service.QuizService,
	authService *service.AuthService,
	submissionSvc *service.SubmissionService,
	analyticsService *service.AnalyticsService,
) *QuizHandler {
	return &QuizHandler{
		quizService:      quizService,
		authService:      authService,
		submissionSvc:    submissionSvc,
		analyticsService: analyticsService,
	}
}

// Create godoc
// POST /api/v1/quizzes/create
// Creates a new draft quiz, optionally with inline questions.
func (h *QuizHandler) Create(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// List godoc
// GET /api/v1/quizzes
// Faculty see their own quizzes in any status; students see the
// answer-stripped published quizzes targeting their cohort.
func (h *QuizHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	if claims.Role == model.RoleFaculty {
		quizzes, err := h.quizService.ListOwned(c.Request.Context(), userID)
		if err != nil {
			failFromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
		return
	}

	student, err := h.authService.GetByID(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	quizzes, err := h.quizService.ListAvailable(c.Request.Context(), student)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Update godoc
// PUT|PATCH /api/v1/quizzes/:quiz_id
// Patches quiz title and/or description.
func (h *QuizHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, userID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Delete godoc
// DELETE /api/v1/quizzes/:quiz_id
// Deletes a quiz and all its submissions.
func (h *QuizHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, userID); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "quiz deleted"})
}

// TogglePublish godoc
// POST /api/v1/quizzes/:quiz_id/publish
// Flips draft/published. The draft-to-published transition notifies the
// targeted student cohort.
func (h *QuizHandler) TogglePublish(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.TogglePublish(c.Request.Context(), quizID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": quiz.Status})
}

// Submissions godoc
// GET /api/v1/quizzes/:quiz_id/submissions
// Lists every submission for the owner's quiz with student identity.
func (h *QuizHandler) Submissions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	subs, err := h.submissionSvc.ListForQuiz(c.Request.Context(), quizID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// Analytics godoc
// GET /api/v1/quizzes/:quiz_id/analytics
// Returns score statistics and per-question correctness for the owner's
// quiz, or an informational message when nobody has submitted yet.
func (h *QuizHandler) Analytics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	quizID, ok := quizIDParam(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.ForQuiz(c.Request.Context(), quizID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if analytics == nil {
		response.Success(c, http.StatusOK, gin.H{"info": "No submissions yet"})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"analytics": analytics})
}
