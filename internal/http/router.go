package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sosy-match/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	authH *AuthHandler,
	daylightH *DaylightHandler,
	eventH *EventHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	// Los tests se pueden enviar sin sesión de admin; el resto del dominio
	// daylight es del panel y va detras de JWT.
	r.POST("/daylight/tests", daylightH.SubmitTest)
	r.GET("/daylight/tests/:userID", daylightH.GetTest)

	daylight := r.Group("/daylight", JWTAuthMiddleware(jwtServ))
	daylight.GET("/tests", daylightH.ListTests)
	daylight.GET("/tests/:userID/similar", daylightH.SimilarTests)
	daylight.POST("/sessions", daylightH.CreateSession)
	daylight.GET("/sessions", daylightH.ListSessions)
	daylight.GET("/sessions/:sessionID", daylightH.GetSession)

	r.GET("/profiles/:userID", profileH.GetProfile)
	r.PUT("/profiles/:userID", profileH.UpsertProfile)
	r.POST("/feedback", profileH.CreateFeedback)

	events := r.Group("/events", JWTAuthMiddleware(jwtServ))
	events.POST("/:eventID/matching", eventH.CreateMatching)
	events.GET("/:eventID/matching", eventH.ListMatchings)

	matching := r.Group("/matching", JWTAuthMiddleware(jwtServ))
	matching.GET("/sessions/:sessionID", eventH.GetSession)
	matching.GET("/groups/:groupID/scores", eventH.GetGroupScores)
	matching.GET("/groups/:groupID/feedback", profileH.ListGroupFeedback)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
