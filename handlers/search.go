package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"skydeal/logging"
	"skydeal/services"
)

// SearchRequest is the inbound search body. Origin and date are required;
// destination only matters in exact mode and is checked by the planner.
type SearchRequest struct {
	Mode        string  `json:"mode"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Vibe        string  `json:"vibe"`
	Budget      float64 `json:"budget"`
	Date        string  `json:"date"`
	DateKind    string  `json:"dateKind"`
	Nights      int     `json:"nights"`
	Currency    string  `json:"currency"`
}

type SearchResponse struct {
	Status    string                   `json:"status"` // "success", "no_data" or "error"
	RequestID string                   `json:"request_id,omitempty"`
	Message   string                   `json:"message,omitempty"`
	Offer     *services.TripOffer      `json:"offer,omitempty"`
	Content   *services.ContentPackage `json:"content,omitempty"`
}

// Handler carries the planner and the per-request deadline.
type Handler struct {
	planner  *services.Planner
	deadline time.Duration
}

func New(planner *services.Planner, deadline time.Duration) *Handler {
	return &Handler{planner: planner, deadline: deadline}
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SearchResponse{Status: "error", Message: "Invalid request: " + err.Error()})
		return
	}

	requestID := uuid.New().String()
	log := logging.GetLogger().With(zap.String("request_id", requestID))
	log.Info("search request received",
		zap.String("mode", req.Mode),
		zap.String("origin", req.Origin),
		zap.String("date", req.Date))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.deadline)
	defer cancel()

	result, err := h.planner.Plan(ctx, services.TripRequest{
		Mode:        services.SearchMode(req.Mode),
		Origin:      req.Origin,
		Destination: req.Destination,
		Vibe:        req.Vibe,
		Budget:      req.Budget,
		Date:        req.Date,
		DateKind:    services.DateKind(req.DateKind),
		Nights:      req.Nights,
		Currency:    req.Currency,
	})
	if err != nil {
		log.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, SearchResponse{
			Status:    "error",
			RequestID: requestID,
			Message:   err.Error(),
		})
		return
	}

	if result.Offer == nil {
		log.Info("no usable offer", zap.String("reason", result.NoDataMessage))
		c.JSON(http.StatusOK, SearchResponse{
			Status:    "no_data",
			RequestID: requestID,
			Message:   result.NoDataMessage,
		})
		return
	}

	log.Info("offer assembled",
		zap.String("destination", result.Offer.Destination),
		zap.Float64("total", result.Offer.TotalCost))

	c.JSON(http.StatusOK, SearchResponse{
		Status:    "success",
		RequestID: requestID,
		Offer:     result.Offer,
		Content:   result.Content,
	})
}
