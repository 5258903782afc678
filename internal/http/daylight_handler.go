package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/service"
)

// DaylightHandler mantiene dependencias para los endpoints de tests de
// personalidad y sesiones de matching por rasgos.
type DaylightHandler struct {
	logger       *zap.Logger
	daylightServ *service.DaylightService
}

func NewDaylightHandler(logger *zap.Logger, daylightServ *service.DaylightService) *DaylightHandler {
	return &DaylightHandler{
		logger:       logger,
		daylightServ: daylightServ,
	}
}

// SubmitTest maneja POST /daylight/tests.
func (h *DaylightHandler) SubmitTest(c *gin.Context) {
	var req struct {
		UserID  string         `json:"user_id" binding:"required"`
		Answers domain.Answers `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit test request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	test, err := h.daylightServ.SubmitTest(c.Request.Context(), req.UserID, req.Answers)
	if err != nil {
		h.logger.Error("submit test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit test"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"test":                  test,
		"archetype_description": service.ArchetypeDescriptions[test.Archetype],
	})
}

// GetTest maneja GET /daylight/tests/:userID.
func (h *DaylightHandler) GetTest(c *gin.Context) {
	test, err := h.daylightServ.GetLatestTest(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
			return
		}
		h.logger.Error("get test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get test"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test":                  test,
		"archetype_description": service.ArchetypeDescriptions[test.Archetype],
	})
}

// ListTests maneja GET /daylight/tests.
func (h *DaylightHandler) ListTests(c *gin.Context) {
	skip, limit := paginationParams(c)
	tests, err := h.daylightServ.ListTests(c.Request.Context(), skip, limit)
	if err != nil {
		h.logger.Error("list tests failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tests": tests, "count": len(tests)})
}

// SimilarTests maneja GET /daylight/tests/:userID/similar.
func (h *DaylightHandler) SimilarTests(c *gin.Context) {
	k, err := strconv.Atoi(c.DefaultQuery("k", "5"))
	if err != nil || k < 1 || k > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "k must be between 1 and 50"})
		return
	}

	tests, err := h.daylightServ.FindSimilarTests(c.Request.Context(), c.Param("userID"), k)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
			return
		}
		h.logger.Error("find similar tests failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not find similar tests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tests": tests, "count": len(tests)})
}

// CreateSession maneja POST /daylight/sessions.
func (h *DaylightHandler) CreateSession(c *gin.Context) {
	var req struct {
		SessionName string   `json:"session_name" binding:"required"`
		UserIDs     []string `json:"user_ids" binding:"required"`
		Threshold   float64  `json:"min_match_threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, _ := GetAuthClaims(c)

	if err := h.daylightServ.ValidateParticipants(c.Request.Context(), req.UserIDs); err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnoughParticipants):
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least 3 participants are required"})
		case errors.Is(err, service.ErrParticipantWithoutTest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("validate participants failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not validate participants"})
		}
		return
	}

	result, err := h.daylightServ.CreateSession(c.Request.Context(), req.SessionName, claims.UserID, req.UserIDs, req.Threshold)
	if err != nil {
		h.logger.Error("create matching session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetSession maneja GET /daylight/sessions/:sessionID.
func (h *DaylightHandler) GetSession(c *gin.Context) {
	result, err := h.daylightServ.GetSessionResult(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("get session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get session"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListSessions maneja GET /daylight/sessions.
func (h *DaylightHandler) ListSessions(c *gin.Context) {
	skip, limit := paginationParams(c)
	sessions, err := h.daylightServ.ListSessions(c.Request.Context(), skip, limit)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func paginationParams(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return skip, limit
}
