package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
)

type (
	BanditHandler struct {
		validate      *validator.Validate
		banditService BanditService
	}

	BanditService interface {
		ListScored(ctx context.Context) ([]domain.ArmScore, error)
		RecordOutcome(ctx context.Context, rewards map[string]float64) error
	}

	// RewardRequest credits one pull and a reward to each listed section.
	RewardRequest struct {
		Rewards map[string]float64 `json:"rewards" validate:"required,min=1,dive,keys,required,max=50,endkeys"`
	}
)

func NewBanditHandler(svc BanditService) *BanditHandler {
	return &BanditHandler{
		validate:      validator.New(),
		banditService: svc,
	}
}

// GET /api/v1/bandit/arms
func (h *BanditHandler) Arms(c echo.Context) error {
	arms, err := h.banditService.ListScored(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list arms", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(arms))
}

// POST /api/v1/bandit/rewards
// body: { "rewards": { "pricing": 1.0, "header": 0 } }
func (h *BanditHandler) Rewards(c echo.Context) error {
	var req RewardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.banditService.RecordOutcome(c.Request().Context(), req.Rewards)
	switch {
	case err == nil:
	case errors.Is(err, bandit.ErrUnknownArm):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, bandit.ErrInvalidReward), errors.Is(err, bandit.ErrNoRewards):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	default:
		logger.Error("Failed to record outcome", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("outcome recorded"))
}
