package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"quiz_portal/config"
	"quiz_portal/models"
)

const sessionKey = "session"

var ErrNoSession = errors.New("no session")

// SessionManager keeps the backend token and role in a signed, HTTP-only
// cookie. The backend token itself is never verified here; the backend
// rejects stale tokens with 401 and handlers clear the session then.
type SessionManager struct {
	secret     []byte
	cookieName string
	secure     bool
	maxAge     time.Duration
}

func NewSessionManager(cfg config.Session) *SessionManager {
	return &SessionManager{
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		maxAge:     cfg.MaxAge,
	}
}

// Save stores a fresh session on the response.
func (m *SessionManager) Save(c *gin.Context, accessToken, role string) error {
	now := time.Now()
	claims := &models.SessionClaims{
		AccessToken: accessToken,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, signed, int(m.maxAge.Seconds()), "/", "", m.secure, true)
	return nil
}

// Load reads and verifies the session cookie.
func (m *SessionManager) Load(c *gin.Context) (*models.SessionClaims, error) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.AccessToken == "" || claims.Role == "" {
		return nil, ErrNoSession
	}
	return claims, nil
}

// Clear drops the session cookie. Logout and backend 401s both end here.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

// RequireRole lets the request through only for a session with the given
// role. Everyone else is sent back to the login page.
func (m *SessionManager) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.Load(c)
		if err != nil || claims.Role != role {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set(sessionKey, claims)
		c.Next()
	}
}

// RequireRoleAPI is RequireRole for JSON endpoints.
func (m *SessionManager) RequireRoleAPI(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.Load(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Set(sessionKey, claims)
		c.Next()
	}
}

// CurrentSession returns the session stored by a Require* middleware.
func CurrentSession(c *gin.Context) *models.SessionClaims {
	if v, ok := c.Get(sessionKey); ok {
		if claims, ok := v.(*models.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// Subject identifies the user behind a backend token: the token's "sub"
// claim when it is a JWT, a digest of the token otherwise.
func Subject(accessToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
		switch sub := claims["sub"].(type) {
		case string:
			if sub != "" {
				return sub
			}
		case nil:
		default:
			if b, err := json.Marshal(sub); err == nil {
				return string(b)
			}
		}
	}
	sum := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(sum[:])
}
