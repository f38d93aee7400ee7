package handlers

import (
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/middleware"
	"quiz_portal/models"
)

const (
	tabGenerator = "generator"
	tabLibrary   = "library"
	tabResults   = "results"

	maxQuestions = 50
)

type StaffHandler struct {
	backend        StaffBackend
	sessions       *middleware.SessionManager
	courseOutcomes string
	logger         *zap.Logger
}

func NewStaffHandler(b StaffBackend, sessions *middleware.SessionManager, courseOutcomes string, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		backend:        b,
		sessions:       sessions,
		courseOutcomes: courseOutcomes,
		logger:         logger,
	}
}

type uploadForm struct {
	CourseID     string `form:"course_id"`
	Title        string `form:"title"`
	NumQuestions string `form:"num_questions"`
}

type staffPage struct {
	page
	Tab       string
	Form      uploadForm
	Quizzes   []models.QuizSummary
	NewQuizID string
	NewQuiz   *models.QuizDetail
	Course    string
	Results   []models.RankedResult
}

type quizViewPage struct {
	page
	Quiz *models.QuizDetail
}

// Dashboard renders one of the three staff tabs.
func (h *StaffHandler) Dashboard(c *gin.Context) {
	data := staffPage{page: takeFlash(c), Tab: c.DefaultQuery("tab", tabGenerator)}
	data.Title = "Staff Dashboard"
	token := middleware.CurrentSession(c).AccessToken

	switch data.Tab {
	case tabLibrary:
		quizzes, err := h.backend.ListStaffQuizzes(c.Request.Context(), token)
		if err != nil {
			if endSession(c, h.sessions, err) {
				return
			}
			h.logger.Warn("list staff quizzes", zap.Error(err))
			data.Error = backend.Message(err, "Failed to load quizzes.", msgUnreachable)
		}
		data.Quizzes = quizzes
		data.NewQuizID = c.Query("new")
		if data.NewQuizID != "" {
			// Preview of what the generator just produced.
			quiz, err := h.backend.GetStaffQuiz(c.Request.Context(), token, data.NewQuizID)
			if err != nil {
				if endSession(c, h.sessions, err) {
					return
				}
				h.logger.Warn("get generated quiz", zap.String("quiz_id", data.NewQuizID), zap.Error(err))
			}
			data.NewQuiz = quiz
		}

	case tabResults:
		data.Course = strings.TrimSpace(c.Query("course"))
		if data.Course == "" {
			break
		}
		rows, err := h.backend.ListResults(c.Request.Context(), token, data.Course)
		if err != nil {
			if endSession(c, h.sessions, err) {
				return
			}
			h.logger.Warn("list results", zap.String("course", data.Course), zap.Error(err))
			data.Error = backend.Message(err, "Failed to load results.", msgUnreachable)
		}
		data.Results = models.RankResults(rows)

	default:
		data.Tab = tabGenerator
	}

	c.HTML(http.StatusOK, "staff.html", data)
}

// UploadQuiz forwards a course PDF to the generator.
func (h *StaffHandler) UploadQuiz(c *gin.Context) {
	var form uploadForm
	data := staffPage{page: page{Title: "Staff Dashboard"}, Tab: tabGenerator}
	if err := c.ShouldBind(&form); err != nil {
		data.Error = "Please fill in all fields and select a PDF file."
		c.HTML(http.StatusBadRequest, "staff.html", data)
		return
	}
	form.CourseID = strings.TrimSpace(form.CourseID)
	form.Title = strings.TrimSpace(form.Title)
	form.NumQuestions = strings.TrimSpace(form.NumQuestions)
	data.Form = form

	file, err := c.FormFile("pdf")
	if err != nil || form.CourseID == "" || form.Title == "" || form.NumQuestions == "" {
		data.Error = "Please fill in all fields and select a PDF file."
		c.HTML(http.StatusBadRequest, "staff.html", data)
		return
	}
	n, err := strconv.Atoi(form.NumQuestions)
	if err != nil || n < 1 || n > maxQuestions {
		data.Error = "Number of questions must be between 1 and 50."
		c.HTML(http.StatusBadRequest, "staff.html", data)
		return
	}
	if !isPDF(file.Filename, file.Header.Get("Content-Type")) {
		data.Error = "Please upload a PDF file."
		c.HTML(http.StatusBadRequest, "staff.html", data)
		return
	}

	f, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file", zap.Error(err))
		data.Error = "Upload failed. Try again."
		c.HTML(http.StatusInternalServerError, "staff.html", data)
		return
	}
	defer f.Close()
	pdf, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("read uploaded file", zap.Error(err))
		data.Error = "Upload failed. Try again."
		c.HTML(http.StatusInternalServerError, "staff.html", data)
		return
	}

	resp, err := h.backend.UploadQuiz(c.Request.Context(), middleware.CurrentSession(c).AccessToken, models.UploadQuizRequest{
		FileName:       filepath.Base(file.Filename),
		PDF:            pdf,
		CourseID:       form.CourseID,
		Title:          form.Title,
		NumQuestions:   n,
		CourseOutcomes: h.courseOutcomes,
	})
	if err != nil {
		if endSession(c, h.sessions, err) {
			return
		}
		h.logger.Warn("quiz upload failed", zap.String("course", form.CourseID), zap.Error(err))
		data.Error = backend.Message(err, "Upload failed. Try again.", "Upload failed. Try again.")
		c.HTML(failureStatus(err), "staff.html", data)
		return
	}

	msg := resp.Message
	if msg == "" {
		msg = "Quiz generated successfully!"
	}
	h.logger.Info("quiz generated",
		zap.String("quiz_id", resp.QuizID),
		zap.String("course", form.CourseID),
		zap.Int("questions", len(resp.Quiz)),
	)
	setFlash(c, msg)

	target := "/staff?tab=" + tabLibrary
	if resp.QuizID != "" {
		target += "&new=" + url.QueryEscape(resp.QuizID)
	}
	c.Redirect(http.StatusFound, target)
}

// ViewQuiz renders the printable export of one quiz, answers included.
func (h *StaffHandler) ViewQuiz(c *gin.Context) {
	quiz, err := h.backend.GetStaffQuiz(c.Request.Context(), middleware.CurrentSession(c).AccessToken, c.Param("id"))
	if err != nil {
		if endSession(c, h.sessions, err) {
			return
		}
		h.logger.Warn("get staff quiz", zap.String("quiz_id", c.Param("id")), zap.Error(err))
		renderError(c, failureStatus(err), backend.Message(err, "Failed to load quiz.", msgUnreachable), "/staff?tab="+tabLibrary)
		return
	}
	c.HTML(http.StatusOK, "quiz_view.html", quizViewPage{page: page{Title: quiz.Title}, Quiz: quiz})
}

func isPDF(name, contentType string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf") || strings.HasPrefix(contentType, "application/pdf")
}
