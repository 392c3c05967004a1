package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
)

func testAuthenticator() *auth.Authenticator {
	cfg := &config.Config{
		AuthPassword: "hunter2",
		JWTSecret:    "test-secret",
		TokenTTL:     24 * time.Hour,
	}
	return auth.NewAuthenticator(cfg, zerolog.Nop())
}

func TestLoginAndVerify(t *testing.T) {
	a := testAuthenticator()

	token, err := a.Login("hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}
	if err := a.Verify(token); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	a := testAuthenticator()

	if _, err := a.Login("wrong"); err != auth.ErrInvalidPassword {
		t.Errorf("Login() error = %v, want ErrInvalidPassword", err)
	}
}

func TestVerify_RejectsGarbageAndTampering(t *testing.T) {
	a := testAuthenticator()

	if err := a.Verify("not-a-token"); err != auth.ErrInvalidToken {
		t.Errorf("Verify(garbage) error = %v, want ErrInvalidToken", err)
	}

	token, err := a.Login("hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := a.Verify(token + "x"); err != auth.ErrInvalidToken {
		t.Errorf("Verify(tampered) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsTokenFromOtherSecret(t *testing.T) {
	a := testAuthenticator()

	other := auth.NewAuthenticator(&config.Config{
		AuthPassword: "hunter2",
		JWTSecret:    "different-secret",
		TokenTTL:     24 * time.Hour,
	}, zerolog.Nop())

	token, err := other.Login("hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := a.Verify(token); err != auth.ErrInvalidToken {
		t.Errorf("Verify(foreign token) error = %v, want ErrInvalidToken", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testAuthenticator()

	engine := gin.New()
	engine.GET("/protected", a.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("missing cookie", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		engine.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", recorder.Code)
		}
	})

	t.Run("invalid cookie", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "bogus"})
		engine.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", recorder.Code)
		}
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := a.Login("hunter2")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/protected", nil)
		request.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		engine.ServeHTTP(recorder, request)
		if recorder.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", recorder.Code)
		}
	})
}
