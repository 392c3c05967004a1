package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
)

// CookieName is the auth token cookie set on successful login.
const CookieName = "auth_token"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// Authenticator issues and validates the HS256 session token carried in the
// auth cookie.
type Authenticator struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewAuthenticator(cfg *config.Config, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		cfg: cfg,
		log: log.With().Str("component", "auth").Logger(),
	}
}

// Login checks the gallery password and returns a signed session token.
func (a *Authenticator) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.AuthPassword)) != 1 {
		return "", ErrInvalidPassword
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"authorized": true,
		"iat":        now.Unix(),
		"exp":        now.Add(a.cfg.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses the session token and checks the authorized claim.
func (a *Authenticator) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	if authorized, _ := claims["authorized"].(bool); !authorized {
		return ErrInvalidToken
	}
	return nil
}

// CookieTTLSeconds returns the cookie max-age matching the token lifetime.
func (a *Authenticator) CookieTTLSeconds() int {
	return int(a.cfg.TokenTTL.Seconds())
}

// SecureCookies reports whether the auth cookie should carry the Secure flag.
func (a *Authenticator) SecureCookies() bool {
	return a.cfg.IsProduction()
}

// Middleware short-circuits requests without a valid auth cookie before any
// business logic runs.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(CookieName)
		if err != nil || tokenString == "" {
			abortUnauthorized(c, "missing auth token")
			return
		}
		if err := a.Verify(tokenString); err != nil {
			abortUnauthorized(c, "invalid auth token")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
