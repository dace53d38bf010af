// internal/handler/optimize.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type OptimizeHandler struct {
	svc Optimizer
}

func NewOptimizeHandler(svc Optimizer) *OptimizeHandler {
	return &OptimizeHandler{svc: svc}
}

// === DTO ===

type OptimizeRequest struct {
	Query       string         `json:"query" validate:"required,notblank,max=500"`
	UserContext map[string]any `json:"user_context"`
}

// Health godoc
// @Summary Service health and configured API keys
// @Router /health [get]
func (h *OptimizeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}

// Optimize godoc
// @Summary Recommend the best card for a purchase
// @Accept json
// @Produce json
// @Param request body OptimizeRequest true "Purchase description"
// @Success 200 {object} service.Response
// @Failure 400 {object} map[string]string
// @Router /api/optimize [post]
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.svc.Optimize(c.Request.Context(), req.Query)
	if resp.Outcome.IsFallback() {
		slog.Warn("Optimization served from fallback data", "request_id", resp.RequestID, "reason", resp.Outcome.Reason)
	}
	c.JSON(http.StatusOK, resp)
}

// Cards godoc
// @Summary List the active card catalog
// @Success 200 {array} domain.Card
// @Router /api/cards [get]
func (h *OptimizeHandler) Cards(c *gin.Context) {
	cards, err := h.svc.Cards(c.Request.Context())
	if err != nil {
		slog.Error("Cards failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

// History godoc
// @Summary Recent purchases with their recommended card
// @Param limit query int false "Max rows (default 20)"
// @Success 200 {array} domain.PurchaseRecord
// @Router /api/transactions [get]
func (h *OptimizeHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		slog.Error("History failed", "error", err, "limit", limit)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": records, "count": len(records)})
}
