package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Plaqueminier/m3u8-viewer/internal/config"
	domain "github.com/Plaqueminier/m3u8-viewer/internal/domain/video"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver/requests"
	"github.com/Plaqueminier/m3u8-viewer/internal/interfaces/httpserver/responses"
)

// VideoHandler exposes listing, detail and mutation endpoints.
type VideoHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewVideoHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "video-handler").Logger(),
	}
}

// List godoc
// @Summary      List videos
// @Description  Paginated, filtered, sorted listing with signed playback URLs.
// @Produce      json
// @Param        model      query     string  false  "Grouping prefix filter"
// @Param        page       query     int     false  "1-based page index"
// @Param        favorites  query     bool    false  "Favorites only"
// @Param        unseen     query     bool    false  "Unseen only"
// @Param        sortBy     query     string  false  "date, quality or size"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Success      200        {object}  responses.VideoListResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /api/videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var query requests.ListVideosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), domain.ListQuery{
		Model:         query.Model,
		FavoritesOnly: query.Favorites,
		UnseenOnly:    query.Unseen,
		SortBy:        domain.ParseSortKey(query.SortBy),
		SortOrder:     domain.ParseSortOrder(query.SortOrder),
		Page:          query.Page,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("list videos failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to list videos"})
		return
	}

	c.JSON(http.StatusOK, responses.VideoListResponse{
		Videos: page.Videos,
		Pagination: responses.Pagination{
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			TotalVideos: page.TotalVideos,
		},
	})
}

// Get godoc
// @Summary      Video detail
// @Produce      json
// @Param        key  query     string  true  "Object key"
// @Success      200  {object}  domain.Detail
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/video [get]
func (h *VideoHandler) Get(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "video key is required"})
		return
	}

	detail, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("get video failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to retrieve video data"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Previews godoc
// @Summary      Signed preview segment URLs
// @Produce      json
// @Param        key  query     string  true  "Object key"
// @Success      200  {object}  responses.PreviewsResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/previews [get]
func (h *VideoHandler) Previews(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "video key is required"})
		return
	}

	urls, err := h.service.Previews(c.Request.Context(), key)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("previews failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to retrieve previews"})
		return
	}
	c.JSON(http.StatusOK, responses.PreviewsResponse{URLs: urls})
}

// ToggleFavorite godoc
// @Summary      Toggle the favorite flag
// @Accept       json
// @Produce      json
// @Param        request  body      requests.KeyRequest  true  "Object key"
// @Success      200      {object}  responses.FavoriteResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/setFavorite [post]
func (h *VideoHandler) ToggleFavorite(c *gin.Context) {
	var req requests.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "video key is required"})
		return
	}

	favorite, err := h.service.ToggleFavorite(c.Request.Context(), req.Key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "video not found"})
			return
		}
		h.log.Error().Err(err).Str("key", req.Key).Msg("toggle favorite failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to update favorite status"})
		return
	}
	c.JSON(http.StatusOK, responses.FavoriteResponse{Favorite: favorite})
}

// MarkSeen godoc
// @Summary      Stamp the seen time
// @Accept       json
// @Produce      json
// @Param        request  body      requests.KeyRequest  true  "Object key"
// @Success      200      {object}  responses.SuccessResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/video/seen [post]
func (h *VideoHandler) MarkSeen(c *gin.Context) {
	var req requests.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "video key is required"})
		return
	}

	if err := h.service.MarkSeen(c.Request.Context(), req.Key); err != nil {
		h.log.Error().Err(err).Str("key", req.Key).Msg("mark seen failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to update seen timestamp"})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// Delete godoc
// @Summary      Delete a video
// @Description  Removes the object, its preview segments and the metadata row.
// @Accept       json
// @Produce      json
// @Param        request  body      requests.KeyRequest  true  "Object key"
// @Success      200      {object}  responses.SuccessResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/video/delete [post]
func (h *VideoHandler) Delete(c *gin.Context) {
	var req requests.KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "video key is required"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.Key); err != nil {
		h.log.Error().Err(err).Str("key", req.Key).Msg("delete video failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to delete video"})
		return
	}
	c.JSON(http.StatusOK, responses.SuccessResponse{Success: true})
}

// Models godoc
// @Summary      List grouping prefixes
// @Produce      json
// @Success      200  {object}  responses.ModelsResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/models [get]
func (h *VideoHandler) Models(c *gin.Context) {
	models, err := h.service.Models(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list models failed")
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{Error: "failed to list models"})
		return
	}
	c.JSON(http.StatusOK, responses.ModelsResponse{Models: models})
}
