package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"quiz_portal/config"
	"quiz_portal/exam"
	"quiz_portal/middleware"
	"quiz_portal/models"
	"quiz_portal/views"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend stands in for the quiz backend in every handler test.
type fakeBackend struct {
	mu sync.Mutex

	loginCalls int
	loginResp  *models.LoginResponse
	loginErr   error

	registered  []models.RegisterRequest
	registerErr error

	uploads    []models.UploadQuizRequest
	uploadResp *models.UploadQuizResponse
	uploadErr  error

	staffQuizzes []models.QuizSummary
	staffQuiz    *models.QuizDetail
	results      []models.ResultRow
	resultsFor   string

	studentQuizzes []models.QuizSummary
	studentQuiz    *models.QuizDetail
	studentErr     error

	submits       []models.SubmitRequest
	submitErr     error
	submitResults []models.QuestionResult
}

func (f *fakeBackend) Login(_ context.Context, _ models.LoginRequest) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, req models.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return f.registerErr
}

func (f *fakeBackend) UploadQuiz(_ context.Context, _ string, req models.UploadQuizRequest) (*models.UploadQuizResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, req)
	return f.uploadResp, f.uploadErr
}

func (f *fakeBackend) ListStaffQuizzes(context.Context, string) ([]models.QuizSummary, error) {
	return f.staffQuizzes, nil
}

func (f *fakeBackend) GetStaffQuiz(context.Context, string, string) (*models.QuizDetail, error) {
	return f.staffQuiz, nil
}

func (f *fakeBackend) ListResults(_ context.Context, _ string, courseID string) ([]models.ResultRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultsFor = courseID
	return f.results, nil
}

func (f *fakeBackend) ListStudentQuizzes(context.Context, string) ([]models.QuizSummary, error) {
	return f.studentQuizzes, f.studentErr
}

func (f *fakeBackend) GetStudentQuiz(context.Context, string, string) (*models.QuizDetail, error) {
	return f.studentQuiz, f.studentErr
}

func (f *fakeBackend) SubmitQuiz(_ context.Context, _, _ string, req models.SubmitRequest) (*models.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.SubmitResponse{
		Results:    f.submitResults,
		Score:      len(req.Answers),
		Total:      3,
		Percentage: float64(len(req.Answers)) * 100 / 3,
	}, nil
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

type testEnv struct {
	router   *gin.Engine
	backend  *fakeBackend
	sessions *middleware.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fb := &fakeBackend{}
	sessions := middleware.NewSessionManager(config.Session{
		Secret:     "test-secret",
		CookieName: "quiz_session",
		MaxAge:     time.Hour,
	})
	logger := zaptest.NewLogger(t)
	service := exam.NewService(exam.NewStore(time.Hour), fb, nil, logger)

	authHandler := NewAuthHandler(fb, sessions, logger)
	staffHandler := NewStaffHandler(fb, sessions, `{"CO1":"Understand"}`, logger)
	studentHandler := NewStudentHandler(fb, sessions, logger)
	examHandler := NewExamHandler(fb, service, sessions, logger)

	r := gin.New()
	r.SetHTMLTemplate(views.Templates())
	r.GET("/", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", authHandler.Logout)

	staff := r.Group("/staff", sessions.RequireRole(models.RoleStaff))
	staff.GET("", staffHandler.Dashboard)
	staff.POST("/quiz/upload", staffHandler.UploadQuiz)
	staff.GET("/quiz/:id/view", staffHandler.ViewQuiz)

	student := r.Group("/student", sessions.RequireRole(models.RoleStudent))
	student.GET("", studentHandler.Dashboard)
	student.GET("/quiz/:id/take", examHandler.Take)
	student.GET("/exam/:attempt", examHandler.Page)

	api := r.Group("/api/exam/:attempt", sessions.RequireRoleAPI(models.RoleStudent))
	api.GET("", examHandler.State)
	api.POST("/start", examHandler.Start)
	api.POST("/answer", examHandler.Answer)
	api.POST("/nav", examHandler.Navigate)
	api.POST("/submit", examHandler.Submit)
	api.POST("/signal", examHandler.Signal)

	return &testEnv{router: r, backend: fb, sessions: sessions}
}

// session returns a session cookie for token and role.
func (e *testEnv) session(t *testing.T, token, role string) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if err := e.sessions.Save(c, token, role); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return rr.Result().Cookies()[0]
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
