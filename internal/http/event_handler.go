package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sosy-match/internal/service"
)

// EventHandler mantiene dependencias para los endpoints de matching por
// atributos de eventos.
type EventHandler struct {
	logger    *zap.Logger
	eventServ *service.EventMatchingService
}

func NewEventHandler(logger *zap.Logger, eventServ *service.EventMatchingService) *EventHandler {
	return &EventHandler{
		logger:    logger,
		eventServ: eventServ,
	}
}

// CreateMatching maneja POST /events/:eventID/matching.
func (h *EventHandler) CreateMatching(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("eventID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req struct {
		TargetGroupSize   int    `json:"target_group_size" binding:"required"`
		ConversationStyle string `json:"conversation_style" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create matching request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.eventServ.CreateMatching(c.Request.Context(), eventID, req.TargetGroupSize, req.ConversationStyle)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMatchingParams):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEventNoAttendees), errors.Is(err, service.ErrNotEnoughAttendees):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			h.logger.Error("create event matching failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create matching"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListMatchings maneja GET /events/:eventID/matching.
func (h *EventHandler) ListMatchings(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("eventID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	sessions, err := h.eventServ.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("list event matchings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list matchings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// GetSession maneja GET /matching/sessions/:sessionID.
func (h *EventHandler) GetSession(c *gin.Context) {
	session, groups, err := h.eventServ.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("get event session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "groups": groups})
}

// GetGroupScores maneja GET /matching/groups/:groupID/scores.
func (h *EventHandler) GetGroupScores(c *gin.Context) {
	group, scores, err := h.eventServ.GetGroupScores(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		h.logger.Error("get group scores failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get group scores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group, "pairwise_scores": scores})
}
