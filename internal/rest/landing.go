package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/IronRon/Adaptive-Landing-AI/business/recommend"
	"github.com/IronRon/Adaptive-Landing-AI/business/tracking"
	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/metrics"
)

type (
	LandingHandler struct {
		pages       PageStore
		sessions    SessionStarter
		recommender Recommender
		exposures   ExposureRecorder
		cookies     *CookieCodec
	}

	PageStore interface {
		GetPage(ctx context.Context, pageID uint) (domain.LandingPage, error)
	}

	SessionStarter interface {
		Resume(ctx context.Context, cookieID uuid.UUID, client tracking.Client) (domain.Visitor, domain.Session, error)
	}

	Recommender interface {
		Recommend(ctx context.Context, req recommend.Request) domain.RecommendationResult
	}

	// ExposureRecorder counts a pull for each section served to a visitor.
	ExposureRecorder interface {
		RecordExposure(ctx context.Context, sections []string) (int, error)
	}

	LandingResponse struct {
		Page            PageSummary                  `json:"page"`
		Sections        []domain.LandingSection      `json:"sections"`
		CombinedCSS     string                       `json:"combined_css"`
		Recommendations *domain.RecommendationResult `json:"recommendations"`
		ShowCookiePopup bool                         `json:"show_cookie_popup"`
		SessionID       string                       `json:"session_id,omitempty"`
	}

	PageSummary struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
)

// NewLandingHandler wires the landing endpoint. exposures may be nil.
func NewLandingHandler(pages PageStore, sessions SessionStarter, recommender Recommender, exposures ExposureRecorder, cookies *CookieCodec) *LandingHandler {
	return &LandingHandler{
		pages:       pages,
		sessions:    sessions,
		recommender: recommender,
		exposures:   exposures,
		cookies:     cookies,
	}
}

// GET /api/v1/landing?page_id=1
func (h *LandingHandler) Landing(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.LandingLatency.Observe(time.Since(start).Seconds()) }()

	ctx := c.Request().Context()

	var pageID uint
	if raw := c.QueryParam("page_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid page_id"})
		}
		pageID = uint(id)
	}

	page, err := h.pages.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to load landing page", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load page"})
	}

	resp := LandingResponse{
		Page:        PageSummary{ID: page.ID, Name: page.Name},
		Sections:    page.Sections,
		CombinedCSS: domain.CombinedCSS(page),
	}

	visitor, session, ok := h.resumeVisitor(c)
	if !ok {
		metrics.LandingRequests.WithLabelValues("anonymous").Inc()
		resp.ShowCookiePopup = true
		resp.Recommendations = &domain.RecommendationResult{
			Layout:         []string{},
			Customizations: map[string]domain.Customization{},
			Debug:          map[string]any{},
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
	}

	metrics.LandingRequests.WithLabelValues("known").Inc()
	rec := h.recommender.Recommend(ctx, recommend.Request{
		PageID:      page.ID,
		VisitorID:   visitor.ID,
		Sections:    page.Sections,
		CombinedCSS: resp.CombinedCSS,
	})
	resp.Recommendations = &rec
	resp.SessionID = session.SessionID.String()

	if h.exposures != nil && len(rec.Layout) > 0 {
		if _, err := h.exposures.RecordExposure(ctx, rec.Layout); err != nil {
			logger.Warn("Failed to record section exposure", "page_id", page.ID, err)
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

// resumeVisitor opens a fresh session for a returning visitor. Any problem
// with the cookie is treated as no consent yet.
func (h *LandingHandler) resumeVisitor(c echo.Context) (domain.Visitor, domain.Session, bool) {
	cookieID, err := h.cookies.Read(c)
	if err != nil {
		if !errors.Is(err, errNoVisitorCookie) {
			logger.Warn("Unreadable visitor cookie", err)
			h.cookies.Clear(c)
		}
		return domain.Visitor{}, domain.Session{}, false
	}

	visitor, session, err := h.sessions.Resume(c.Request().Context(), cookieID, clientOf(c))
	if err != nil {
		if errors.Is(err, tracking.ErrVisitorNotFound) {
			h.cookies.Clear(c)
		} else {
			logger.Error("Failed to start session", err)
		}
		return domain.Visitor{}, domain.Session{}, false
	}

	return visitor, session, true
}

func clientOf(c echo.Context) tracking.Client {
	req := c.Request()
	return tracking.Client{
		UserAgent: req.UserAgent(),
		Referrer:  req.Referer(),
	}
}
