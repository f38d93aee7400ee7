package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStaff   = "staff"
	RoleStudent = "student"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// SessionClaims is what the browser keeps between requests: the backend
// token and the role the backend reported at login.
type SessionClaims struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}
