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

// ProfileHandler mantiene dependencias para los endpoints de perfiles
// sociales y feedback de energía.
type ProfileHandler struct {
	logger       *zap.Logger
	profileServ  *service.ProfileService
	feedbackServ *service.FeedbackService
}

func NewProfileHandler(logger *zap.Logger, profileServ *service.ProfileService, feedbackServ *service.FeedbackService) *ProfileHandler {
	return &ProfileHandler{
		logger:       logger,
		profileServ:  profileServ,
		feedbackServ: feedbackServ,
	}
}

// GetProfile maneja GET /profiles/:userID.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	profile, err := h.profileServ.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpsertProfile maneja PUT /profiles/:userID.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var profile domain.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		h.logger.Warn("invalid upsert profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	profile.UserID = userID

	saved, err := h.profileServ.Upsert(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": saved})
}

// CreateFeedback maneja POST /feedback.
func (h *ProfileHandler) CreateFeedback(c *gin.Context) {
	var req struct {
		GroupID      string `json:"group_id" binding:"required"`
		UserID       int64  `json:"user_id" binding:"required"`
		RatedUserID  int64  `json:"rated_user_id" binding:"required"`
		EnergyImpact string `json:"energy_impact" binding:"required"`
		Rating       int    `json:"rating" binding:"required"`
		FeedbackText string `json:"feedback_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid feedback request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	feedback, err := h.feedbackServ.Create(c.Request.Context(), domain.EnergyFeedback{
		GroupID:      req.GroupID,
		UserID:       req.UserID,
		RatedUserID:  req.RatedUserID,
		EnergyImpact: req.EnergyImpact,
		Rating:       req.Rating,
		FeedbackText: req.FeedbackText,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create feedback"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// ListGroupFeedback maneja GET /matching/groups/:groupID/feedback.
func (h *ProfileHandler) ListGroupFeedback(c *gin.Context) {
	feedbacks, err := h.feedbackServ.ListByGroup(c.Request.Context(), c.Param("groupID"))
	if err != nil {
		h.logger.Error("list group feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedbacks": feedbacks, "count": len(feedbacks)})
}
