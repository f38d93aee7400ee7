package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/middleware"
	"quiz_portal/models"
)

type AuthHandler struct {
	backend  AuthBackend
	sessions *middleware.SessionManager
	logger   *zap.Logger
}

func NewAuthHandler(b AuthBackend, sessions *middleware.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		backend:  b,
		sessions: sessions,
		logger:   logger,
	}
}

type loginPage struct {
	page
	Email string
}

type registerPage struct {
	page
	Username string
	Email    string
}

var dashboards = map[string]string{
	models.RoleStaff:   "/staff",
	models.RoleStudent: "/student",
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	p := takeFlash(c)
	p.Title = "Login"
	c.HTML(http.StatusOK, "login.html", loginPage{page: p})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", loginPage{page: page{Title: "Login", Error: "Please enter both email and password."}})
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	data := loginPage{page: page{Title: "Login"}, Email: req.Email}
	if req.Email == "" || req.Password == "" {
		data.Error = "Please enter both email and password."
		c.HTML(http.StatusBadRequest, "login.html", data)
		return
	}

	resp, err := h.backend.Login(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		data.Error = backend.Message(err, "Login failed. Please try again.", msgUnreachable)
		c.HTML(failureStatus(err), "login.html", data)
		return
	}

	dest, ok := dashboards[resp.Role]
	if !ok {
		h.logger.Warn("login returned unknown role", zap.String("role", resp.Role))
		data.Error = "Unknown user role"
		c.HTML(http.StatusForbidden, "login.html", data)
		return
	}

	if err := h.sessions.Save(c, resp.AccessToken, resp.Role); err != nil {
		h.logger.Error("save session", zap.Error(err))
		data.Error = "Login failed. Please try again."
		c.HTML(http.StatusInternalServerError, "login.html", data)
		return
	}
	c.Redirect(http.StatusFound, dest)
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", registerPage{page: page{Title: "Register"}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", registerPage{page: page{Title: "Register", Error: "Please fill in all fields."}})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	// Self-registration only ever creates students.
	req.Role = models.RoleStudent

	data := registerPage{page: page{Title: "Register"}, Username: req.Username, Email: req.Email}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		data.Error = "Please fill in all fields."
		c.HTML(http.StatusBadRequest, "register.html", data)
		return
	}

	if err := h.backend.Register(c.Request.Context(), req); err != nil {
		h.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		data.Error = backend.Message(err, "Registration failed.", "Server is unreachable. Try again later.")
		c.HTML(failureStatus(err), "register.html", data)
		return
	}

	setFlash(c, "Registration successful! You can now login.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

// endSession handles a backend 401 on any authenticated page: the stored
// token is dead, so the session goes and the user is sent back to login.
func endSession(c *gin.Context, sessions *middleware.SessionManager, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	sessions.Clear(c)
	setFlashError(c, msgSessionExpired)
	c.Redirect(http.StatusFound, "/")
	return true
}
