package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/middleware"
	"quiz_portal/models"
)

type StudentHandler struct {
	backend  StudentBackend
	sessions *middleware.SessionManager
	logger   *zap.Logger
}

func NewStudentHandler(b StudentBackend, sessions *middleware.SessionManager, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		backend:  b,
		sessions: sessions,
		logger:   logger,
	}
}

type studentPage struct {
	page
	Quizzes []models.QuizSummary
}

func (h *StudentHandler) Dashboard(c *gin.Context) {
	data := studentPage{page: takeFlash(c)}
	data.Title = "Student Dashboard"

	quizzes, err := h.backend.ListStudentQuizzes(c.Request.Context(), middleware.CurrentSession(c).AccessToken)
	if err != nil {
		if endSession(c, h.sessions, err) {
			return
		}
		h.logger.Warn("list student quizzes", zap.Error(err))
		data.Error = backend.Message(err, "Failed to load quizzes.", msgUnreachable)
	}
	data.Quizzes = quizzes

	c.HTML(http.StatusOK, "student.html", data)
}
