package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz_portal/backend"
	"quiz_portal/models"
)

// AuthBackend is the part of the backend the login and register forms use.
type AuthBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

type StaffBackend interface {
	UploadQuiz(ctx context.Context, token string, req models.UploadQuizRequest) (*models.UploadQuizResponse, error)
	ListStaffQuizzes(ctx context.Context, token string) ([]models.QuizSummary, error)
	GetStaffQuiz(ctx context.Context, token, quizID string) (*models.QuizDetail, error)
	ListResults(ctx context.Context, token, courseID string) ([]models.ResultRow, error)
}

type StudentBackend interface {
	ListStudentQuizzes(ctx context.Context, token string) ([]models.QuizSummary, error)
	GetStudentQuiz(ctx context.Context, token, quizID string) (*models.QuizDetail, error)
}

const (
	msgUnreachable    = "No response from server. Please try again later."
	msgSessionExpired = "Your session has expired. Please log in again."
)

// page carries the fields the shared layout reads.
type page struct {
	Title string
	Error string
	Flash string
}

type errorPage struct {
	page
	Back string
}

const (
	flashCookie      = "flash"
	flashErrorCookie = "flash_error"
)

// setFlash leaves a message for the next page the browser loads.
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, msg, 60, "/", "", false, true)
}

func setFlashError(c *gin.Context, msg string) {
	c.SetCookie(flashErrorCookie, msg, 60, "/", "", false, true)
}

// takeFlash reads and clears the pending messages.
func takeFlash(c *gin.Context) page {
	var p page
	if msg, err := c.Cookie(flashCookie); err == nil && msg != "" {
		p.Flash = msg
		c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	}
	if msg, err := c.Cookie(flashErrorCookie); err == nil && msg != "" {
		p.Error = msg
		c.SetCookie(flashErrorCookie, "", -1, "/", "", false, true)
	}
	return p
}

// failureStatus picks the status for a page re-rendered after a backend
// error: the backend's own client error, 502 for everything else.
func failureStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func renderError(c *gin.Context, status int, msg, back string) {
	c.HTML(status, "error.html", errorPage{page: page{Title: "Error", Error: msg}, Back: back})
}
