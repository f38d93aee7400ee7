package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quiz_portal/backend"
	"quiz_portal/models"
)

func TestLoginWithEmptyPasswordNeverCallsBackend(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(postForm("/login", url.Values{"email": {"ann@example.com"}, "password": {""}}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Please enter both email and password.") {
		t.Fatalf("validation message missing from page")
	}
	if env.backend.loginCalls != 0 {
		t.Fatalf("backend was called %d times", env.backend.loginCalls)
	}
}

func TestLoginStoresSessionAndRedirectsByRole(t *testing.T) {
	tests := []struct {
		role string
		dest string
	}{
		{models.RoleStudent, "/student"},
		{models.RoleStaff, "/staff"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.loginResp = &models.LoginResponse{AccessToken: "t1", Role: tt.role}

			rr := env.do(postForm("/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}}))

			if rr.Code != http.StatusFound || rr.Header().Get("Location") != tt.dest {
				t.Fatalf("expected redirect to %s, got %d %q", tt.dest, rr.Code, rr.Header().Get("Location"))
			}
			cookie := cookieNamed(rr, "quiz_session")
			if cookie == nil {
				t.Fatalf("no session cookie set")
			}

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.AddCookie(cookie)
			claims, err := env.sessions.Load(c)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			if claims.AccessToken != "t1" || claims.Role != tt.role {
				t.Fatalf("unexpected session %+v", claims)
			}
		})
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	env.backend.loginResp = &models.LoginResponse{AccessToken: "t1", Role: "admin"}

	rr := env.do(postForm("/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}}))

	if !strings.Contains(rr.Body.String(), "Unknown user role") {
		t.Fatalf("expected unknown role message, got %d", rr.Code)
	}
	if cookieNamed(rr, "quiz_session") != nil {
		t.Fatalf("session must not be saved for an unknown role")
	}
}

func TestLoginFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &backend.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}, "Invalid credentials"},
		{"no message", &backend.APIError{Status: http.StatusInternalServerError}, "Login failed. Please try again."},
		{"unreachable", fmt.Errorf("%w: connection refused", backend.ErrUnreachable), "No response from server. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.loginErr = tt.err

			rr := env.do(postForm("/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}}))

			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Fatalf("expected %q in page", tt.want)
			}
			if cookieNamed(rr, "quiz_session") != nil {
				t.Fatalf("failed login must not set a session")
			}
		})
	}
}

func TestRegisterCreatesStudentAndFlashes(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(postForm("/register", url.Values{
		"username": {"Ann"},
		"email":    {"ann@example.com"},
		"password": {"secret"},
		"role":     {"staff"},
	}))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if len(env.backend.registered) != 1 || env.backend.registered[0].Role != models.RoleStudent {
		t.Fatalf("expected one student registration, got %+v", env.backend.registered)
	}

	flash := cookieNamed(rr, flashCookie)
	if flash == nil {
		t.Fatalf("no flash cookie set")
	}
	page := env.do(httptest.NewRequest(http.MethodGet, "/", nil), flash)
	if !strings.Contains(page.Body.String(), "Registration successful! You can now login.") {
		t.Fatalf("flash message missing from login page")
	}
}

func TestRegisterValidationAndFailure(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(postForm("/register", url.Values{"username": {"Ann"}, "email": {""}, "password": {"secret"}}))
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Please fill in all fields.") {
		t.Fatalf("expected validation message, got %d", rr.Code)
	}
	if len(env.backend.registered) != 0 {
		t.Fatalf("backend must not be called on invalid input")
	}

	env.backend.registerErr = fmt.Errorf("%w: timeout", backend.ErrUnreachable)
	rr = env.do(postForm("/register", url.Values{"username": {"Ann"}, "email": {"ann@example.com"}, "password": {"secret"}}))
	if !strings.Contains(rr.Body.String(), "Server is unreachable. Try again later.") {
		t.Fatalf("expected unreachable message")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodPost, "/logout", nil), env.session(t, "t1", models.RoleStaff))

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d", rr.Code)
	}
	cookie := cookieNamed(rr, "quiz_session")
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected session cookie to be expired, got %+v", cookie)
	}
}
