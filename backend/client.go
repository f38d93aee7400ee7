// Package backend is the REST client for the quiz generator API. Every
// method maps to one backend endpoint and returns typed values or one of the
// errors declared in errors.go.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"quiz_portal/models"
)

type Client struct {
	rest *resty.Client
}

// NewClient builds a client for baseURL. A zero timeout leaves resty's default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		rest.SetTimeout(timeout)
	}
	return &Client{rest: rest}
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/auth/login")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates a student account. The backend answers 201 on success.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		Post("/auth/register")
	if err := check(resp, err); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (c *Client) UploadQuiz(ctx context.Context, token string, req models.UploadQuizRequest) (*models.UploadQuizResponse, error) {
	var out models.UploadQuizResponse
	resp, err := c.authed(ctx, token).
		SetFileReader("pdf", req.FileName, bytes.NewReader(req.PDF)).
		SetFormData(map[string]string{
			"course_id":       req.CourseID,
			"title":           req.Title,
			"num_questions":   strconv.Itoa(req.NumQuestions),
			"course_outcomes": req.CourseOutcomes,
		}).
		SetResult(&out).
		Post("/staff/quiz/upload")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("upload quiz: %w", err)
	}
	return &out, nil
}

func (c *Client) ListStaffQuizzes(ctx context.Context, token string) ([]models.QuizSummary, error) {
	var out models.QuizList
	resp, err := c.authed(ctx, token).
		SetResult(&out).
		Get("/staff/quizzes")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("list staff quizzes: %w", err)
	}
	return out, nil
}

func (c *Client) GetStaffQuiz(ctx context.Context, token, quizID string) (*models.QuizDetail, error) {
	var out models.QuizDetail
	resp, err := c.authed(ctx, token).
		SetResult(&out).
		Get("/staff/quiz/" + url.PathEscape(quizID))
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("get staff quiz %s: %w", quizID, err)
	}
	if out.QuizID == "" {
		out.QuizID = quizID
	}
	return &out, nil
}

func (c *Client) ListResults(ctx context.Context, token, courseID string) ([]models.ResultRow, error) {
	var out resultList
	resp, err := c.authed(ctx, token).
		SetResult(&out).
		Get("/staff/results/" + url.PathEscape(courseID))
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("list results for %s: %w", courseID, err)
	}
	return out, nil
}

func (c *Client) ListStudentQuizzes(ctx context.Context, token string) ([]models.QuizSummary, error) {
	var out models.QuizList
	resp, err := c.authed(ctx, token).
		SetResult(&out).
		Get("/student/quizzes")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("list student quizzes: %w", err)
	}
	return out, nil
}

func (c *Client) GetStudentQuiz(ctx context.Context, token, quizID string) (*models.QuizDetail, error) {
	var out models.QuizDetail
	resp, err := c.authed(ctx, token).
		SetResult(&out).
		Get("/student/quiz/" + url.PathEscape(quizID))
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("get student quiz %s: %w", quizID, err)
	}
	if out.QuizID == "" {
		out.QuizID = quizID
	}
	return &out, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, token, quizID string, req models.SubmitRequest) (*models.SubmitResponse, error) {
	var out models.SubmitResponse
	resp, err := c.authed(ctx, token).
		SetBody(req).
		SetResult(&out).
		Post("/student/quiz/" + url.PathEscape(quizID) + "/submit")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("submit quiz %s: %w", quizID, err)
	}
	return &out, nil
}

// Ping reports whether the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rest.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}

func (c *Client) authed(ctx context.Context, token string) *resty.Request {
	return c.rest.R().SetContext(ctx).SetAuthToken(token)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}
