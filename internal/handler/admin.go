// internal/handler/admin.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"card-optimizer/internal/auth"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	store  storage.CardStorage
	tokens *auth.TokenService
}

func NewAdminHandler(store storage.CardStorage, tokens *auth.TokenService) *AdminHandler {
	return &AdminHandler{store: store, tokens: tokens}
}

// === DTO ===

type TokenRequest struct {
	AdminKey string `json:"admin_key" validate:"required,notblank"`
}

type RewardStructureRequest struct {
	DefaultRate float64            `json:"default_rate" validate:"gte=0,lte=100"`
	Categories  map[string]float64 `json:"categories" validate:"dive,keys,category,endkeys,gte=0,lte=100"`
	RewardType  string             `json:"reward_type" validate:"required,oneof=cashback points"`
	PointValue  float64            `json:"point_value" validate:"gte=0"`
	AnnualCaps  map[string]float64 `json:"annual_caps" validate:"dive,keys,category,endkeys,gte=0"`
	SignupBonus string             `json:"signup_bonus"`
}

type CardRequest struct {
	ID              string                 `json:"id" validate:"required,notblank"`
	Name            string                 `json:"name" validate:"required,notblank"`
	Issuer          string                 `json:"issuer" validate:"required,notblank"`
	AnnualFee       decimal.Decimal        `json:"annual_fee"`
	RewardStructure RewardStructureRequest `json:"reward_structure"`
}

func (r CardRequest) toDomain() domain.Card {
	rs := r.RewardStructure
	cats := make(map[string]float64, len(rs.Categories))
	for k, v := range rs.Categories {
		cats[domain.NormalizeCategory(k)] = v
	}
	var caps map[string]float64
	if len(rs.AnnualCaps) > 0 {
		caps = make(map[string]float64, len(rs.AnnualCaps))
		for k, v := range rs.AnnualCaps {
			caps[domain.NormalizeCategory(k)] = v
		}
	}
	return domain.Card{
		ID:        strings.TrimSpace(r.ID),
		Name:      strings.TrimSpace(r.Name),
		Issuer:    strings.TrimSpace(r.Issuer),
		AnnualFee: r.AnnualFee,
		RewardStructure: &domain.RewardStructure{
			DefaultRate: rs.DefaultRate,
			Categories:  cats,
			RewardType:  domain.RewardType(rs.RewardType),
			PointValue:  rs.PointValue,
			AnnualCaps:  caps,
			SignupBonus: rs.SignupBonus,
		},
		IsActive: true,
	}
}

// Token godoc
// @Summary Exchange the admin key for a JWT
// @Router /api/v1/admin/token [post]
func (h *AdminHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Login(req.AdminKey)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
		return
	case errors.Is(err, auth.ErrInvalidAdminKey):
		slog.Warn("Admin login rejected", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// UpsertCard godoc
// @Summary Add or replace a catalog card
// @Accept json
// @Param request body CardRequest true "Card"
// @Router /api/v1/admin/cards [put]
func (h *AdminHandler) UpsertCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AnnualFee.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: AnnualFee must not be negative"})
		return
	}

	card := req.toDomain()
	if err := h.store.UpsertCard(c.Request.Context(), card); err != nil {
		slog.Error("UpsertCard failed", "error", err, "card_id", card.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save card"})
		return
	}

	slog.Info("Card saved", "card_id", card.ID, "name", card.Name)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "id": card.ID})
}

// DeactivateCard godoc
// @Summary Remove a card from the active catalog
// @Param id path string true "Card ID"
// @Router /api/v1/admin/cards/{id} [delete]
func (h *AdminHandler) DeactivateCard(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id required"})
		return
	}

	if err := h.store.DeactivateCard(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		slog.Error("DeactivateCard failed", "error", err, "card_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate card"})
		return
	}

	slog.Info("Card deactivated", "card_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
