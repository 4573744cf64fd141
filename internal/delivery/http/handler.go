package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/usecase"
)

const (
	serviceName    = "giftgenie-backend"
	serviceVersion = "1.0.0"
)

// GiftService is the use case behind the recommendation endpoints
type GiftService interface {
	Recommend(ctx context.Context, profile domain.RecipientProfile, budget domain.Budget) (*usecase.Resolution, error)
	Resolve(ctx context.Context, intents []domain.GiftIntent, budget domain.Budget, profile domain.RecipientProfile) (*usecase.Resolution, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	gifts   GiftService
	timeout time.Duration
	logger  zerolog.Logger
}

// RecommendRequest asks for gift ideas for a recipient
type RecommendRequest struct {
	Profile domain.RecipientProfile `json:"profile"`
	Budget  domain.Budget           `json:"budget"`
}

// ResolveRequest grounds caller-supplied gift intents
type ResolveRequest struct {
	Intents []domain.GiftIntent     `json:"intents" binding:"required,min=1,dive"`
	Budget  domain.Budget           `json:"budget"`
	Profile domain.RecipientProfile `json:"profile"`
}

// RecommendationResponse is a resolution plus a warning when catalog data was simulated
type RecommendationResponse struct {
	*usecase.Resolution
	Warning string `json:"warning,omitempty"`
}

// NewHandler creates a new HTTP handler. A zero timeout leaves request deadlines to the client.
func NewHandler(gifts GiftService, timeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		gifts:   gifts,
		timeout: timeout,
		logger:  logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Recommend handles POST /api/v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	if h.gifts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gift service not configured"})
		return
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resolution, err := h.gifts.Recommend(ctx, req.Profile, req.Budget)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecommendationResponse(resolution))
}

// Resolve handles POST /api/v1/recommendations/resolve
func (h *Handler) Resolve(c *gin.Context) {
	if h.gifts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gift service not configured"})
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resolution, err := h.gifts.Resolve(ctx, req.Intents, req.Budget, req.Profile)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecommendationResponse(resolution))
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// respondError maps domain errors to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIntentGeneration):
		h.logger.Warn().Err(err).Str("path", c.FullPath()).Msg("intent generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Gift idea generation temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled"})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func newRecommendationResponse(resolution *usecase.Resolution) RecommendationResponse {
	resp := RecommendationResponse{Resolution: resolution}
	switch resolution.Provenance {
	case domain.ProvenanceSimulated:
		resp.Warning = "Catalog search unavailable - products are simulated"
	case domain.ProvenanceDegraded:
		resp.Warning = "Some catalog searches failed - results include simulated products"
	}
	return resp
}
