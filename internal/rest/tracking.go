package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/IronRon/Adaptive-Landing-AI/business/tracking"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/metrics"
)

type (
	TrackingHandler struct {
		validate *validator.Validate
		service  TrackingService
		cookies  *CookieCodec
	}

	TrackingService interface {
		AcceptCookies(ctx context.Context, client tracking.Client) (domain.Visitor, domain.Session, error)
		Track(ctx context.Context, batch tracking.Batch) (int, error)
	}

	AcceptCookiesResponse struct {
		SessionID string `json:"session_id"`
	}

	TrackResponse struct {
		Status string `json:"status"`
		Stored int    `json:"stored"`
	}
)

func NewTrackingHandler(service TrackingService, cookies *CookieCodec) *TrackingHandler {
	return &TrackingHandler{
		validate: validator.New(),
		service:  service,
		cookies:  cookies,
	}
}

// POST /api/v1/accept-cookies
func (h *TrackingHandler) AcceptCookies(c echo.Context) error {
	visitor, session, err := h.service.AcceptCookies(c.Request().Context(), clientOf(c))
	if err != nil {
		logger.Error("Failed to register visitor", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to register visitor"})
	}

	if err := h.cookies.Write(c, visitor.CookieID); err != nil {
		logger.Error("Failed to write visitor cookie", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to set cookie"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(AcceptCookiesResponse{
		SessionID: session.SessionID.String(),
	}))
}

// POST /api/v1/track-interactions
func (h *TrackingHandler) Track(c echo.Context) error {
	var req tracking.Batch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	n, err := h.service.Track(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrSessionNotFound):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid session_id"})
		case errors.Is(err, tracking.ErrNoEvents):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to track interactions", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to store events"})
	}

	metrics.TrackedEvents.Add(float64(n))
	return c.JSON(http.StatusOK, TrackResponse{Status: "success", Stored: n})
}
