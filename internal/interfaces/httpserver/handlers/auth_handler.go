package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver/requests"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver/responses"
)

// AuthHandler exposes the password gate.
type AuthHandler struct {
	cfg           *config.Config
	authenticator *auth.Authenticator
	log           zerolog.Logger
}

func NewAuthHandler(cfg *config.Config, authenticator *auth.Authenticator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:           cfg,
		authenticator: authenticator,
		log:           log.With().Str("component", "auth-handler").Logger(),
	}
}

// Login godoc
// @Summary      Authenticate with the gallery password
// @Accept       json
// @Produce      json
// @Param        request  body      requests.LoginRequest  true  "Password"
// @Success      200      {object}  map[string]string
// @Failure      401      {object}  responses.ErrorResponse
// @Router       /api/auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "password is required"})
		return
	}

	token, err := h.authenticator.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, responses.ErrorResponse{Error: "invalid password"})
			return
		}
		h.log.Error().Err(err).Msg("sign token failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "authentication failed"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, token, h.authenticator.CookieTTLSeconds(), "/", "", h.authenticator.SecureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"message": "authenticated"})
}

// Check godoc
// @Summary      Validate the auth cookie
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /api/check-auth [get]
func (h *AuthHandler) Check(c *gin.Context) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, responses.ErrorResponse{Error: "no token found"})
		return
	}
	if err := h.authenticator.Verify(token); err != nil {
		c.JSON(http.StatusUnauthorized, responses.ErrorResponse{Error: "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "authenticated"})
}
