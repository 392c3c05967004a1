package handlers

import (
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/infrastructure/auth"
)

// Provider bundles the handler set for route registration.
type Provider struct {
	Auth  *AuthHandler
	Video *VideoHandler
}

func NewProvider(cfg *config.Config, service *domain.Service, authenticator *auth.Authenticator, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:  NewAuthHandler(cfg, authenticator, log),
		Video: NewVideoHandler(cfg, service, log),
	}
}
