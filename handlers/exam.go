package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/exam"
	"quiz_portal/middleware"
)

type ExamHandler struct {
	backend  StudentBackend
	service  *exam.Service
	sessions *middleware.SessionManager
	logger   *zap.Logger
}

func NewExamHandler(b StudentBackend, service *exam.Service, sessions *middleware.SessionManager, logger *zap.Logger) *ExamHandler {
	return &ExamHandler{
		backend:  b,
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type questionView struct {
	Index    int
	Key      string
	Text     string
	Options  []string
	Selected string
}

type examPage struct {
	page
	Snapshot  exam.Snapshot
	Questions []questionView
	APIBase   string
}

func owner(c *gin.Context) string {
	return middleware.Subject(middleware.CurrentSession(c).AccessToken)
}

// Take opens the exam window for a quiz: it reuses the student's open
// attempt or creates one, then redirects to the exam page.
func (h *ExamHandler) Take(c *gin.Context) {
	ctx := c.Request.Context()
	token := middleware.CurrentSession(c).AccessToken
	quizID := c.Param("id")

	quizzes, err := h.backend.ListStudentQuizzes(ctx, token)
	if err != nil {
		if endSession(c, h.sessions, err) {
			return
		}
		h.logger.Warn("list student quizzes", zap.Error(err))
		renderError(c, failureStatus(err), backend.Message(err, "Failed to load quiz.", msgUnreachable), "/student")
		return
	}
	for _, q := range quizzes {
		if q.QuizID == quizID && q.Submitted {
			setFlashError(c, "You have already submitted this quiz.")
			c.Redirect(http.StatusFound, "/student")
			return
		}
	}

	quiz, err := h.backend.GetStudentQuiz(ctx, token, quizID)
	if err != nil {
		if endSession(c, h.sessions, err) {
			return
		}
		h.logger.Warn("get student quiz", zap.String("quiz_id", quizID), zap.Error(err))
		renderError(c, failureStatus(err), backend.Message(err, "Failed to load quiz.", msgUnreachable), "/student")
		return
	}

	a, err := h.service.Open(owner(c), quiz)
	if err != nil {
		if errors.Is(err, exam.ErrAlreadySubmitted) {
			setFlashError(c, "You have already submitted this quiz.")
			c.Redirect(http.StatusFound, "/student")
			return
		}
		if errors.Is(err, exam.ErrNoQuestions) {
			renderError(c, http.StatusUnprocessableEntity, "This quiz has no questions.", "/student")
			return
		}
		h.logger.Error("open exam attempt", zap.String("quiz_id", quizID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to open quiz.", "/student")
		return
	}
	c.Redirect(http.StatusFound, "/student/exam/"+a.ID)
}

// Page renders the exam document. Everything after the first render goes
// through the JSON API so the window never reloads and keeps fullscreen.
func (h *ExamHandler) Page(c *gin.Context) {
	a, err := h.service.Attempt(c.Param("attempt"), owner(c))
	if err != nil {
		renderError(c, http.StatusNotFound, "This exam was not found or has expired.", "/student")
		return
	}

	snap := a.Snapshot()
	questions := make([]questionView, 0, snap.Total)
	for i, q := range a.Questions() {
		key := a.Key(i)
		questions = append(questions, questionView{
			Index:    i,
			Key:      key,
			Text:     q.Question,
			Options:  q.Options,
			Selected: snap.Answers[key],
		})
	}

	c.HTML(http.StatusOK, "exam.html", examPage{
		page:      page{Title: snap.Title},
		Snapshot:  snap,
		Questions: questions,
		APIBase:   "/api/exam/" + a.ID,
	})
}

// attempt resolves the :attempt parameter for the JSON API. It writes the
// 404 itself and returns nil when there is nothing to work on.
func (h *ExamHandler) attempt(c *gin.Context) *exam.Attempt {
	a, err := h.service.Attempt(c.Param("attempt"), owner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
		return nil
	}
	return a
}

func (h *ExamHandler) State(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	c.JSON(http.StatusOK, a.Snapshot())
}

func (h *ExamHandler) Start(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	if err := a.Start(); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("exam started", zap.String("attempt_id", a.ID), zap.String("quiz_id", a.QuizID))
	c.JSON(http.StatusOK, a.Snapshot())
}

func (h *ExamHandler) Answer(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		Option     string `json:"option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Dispatch(exam.Select{QuestionID: req.QuestionID, Option: req.Option}); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Snapshot())
}

func (h *ExamHandler) Navigate(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	var req struct {
		Action string `json:"action" binding:"required"`
		Index  *int   `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var act exam.Action
	switch req.Action {
	case "next":
		act = exam.Next{}
	case "prev":
		act = exam.Prev{}
	case "goto":
		if req.Index == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index is required for goto"})
			return
		}
		act = exam.Goto{Index: *req.Index}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown navigation action"})
		return
	}

	if err := a.Dispatch(act); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Snapshot())
}

func (h *ExamHandler) Submit(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	if _, err := h.service.Submit(c.Request.Context(), a, middleware.CurrentSession(c).AccessToken); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a.Snapshot())
}

// Signal reports an integrity signal from the exam window. The first one
// during an in-progress attempt submits it; later ones only get recorded.
func (h *ExamHandler) Signal(c *gin.Context) {
	a := h.attempt(c)
	if a == nil {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !exam.KnownSignal(req.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown signal"})
		return
	}

	submitted, err := h.service.MarkTamperedAndSubmit(c.Request.Context(), a, middleware.CurrentSession(c).AccessToken, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	if submitted {
		h.logger.Warn("exam auto-submitted",
			zap.String("attempt_id", a.ID),
			zap.String("quiz_id", a.QuizID),
			zap.String("reason", req.Reason),
		)
	}
	c.JSON(http.StatusOK, a.Snapshot())
}

func (h *ExamHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, exam.ErrNotStarted),
		errors.Is(err, exam.ErrAlreadyStarted),
		errors.Is(err, exam.ErrAlreadySubmitted),
		errors.Is(err, exam.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, exam.ErrUnknownQuestion),
		errors.Is(err, exam.ErrUnknownOption),
		errors.Is(err, exam.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case backend.IsUnauthorized(err):
		h.sessions.Clear(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) || errors.Is(err, backend.ErrUnreachable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": backend.Message(err, "Submission failed. Please try again.", msgUnreachable)})
			return
		}
		h.logger.Error("exam request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}
