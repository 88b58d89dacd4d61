package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/samutthan/internal/domain/session"
	"github.com/yanqian/samutthan/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, issuer session.Issuer) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		limitBodySize(cfg.HTTP.MaxBodyBytes),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Healthz)

	api := router.Group("/api/v1")
	{
		api.GET("/symptoms", handler.Symptoms)
		api.POST("/sessions", handler.StartSession)

		sess := api.Group("/session")
		sess.Use(sessionMiddleware(issuer))
		{
			sess.GET("", handler.GetSession)
			sess.DELETE("", handler.EndSession)
			sess.PUT("/locale", handler.SetLocale)
			sess.PUT("/profile", handler.UpdateProfile)
			sess.POST("/symptoms/toggle", handler.ToggleSymptom)
			sess.PUT("/notes", handler.UpdateNotes)
			sess.PUT("/context", handler.UpdateContext)
			sess.POST("/location", handler.ApplyLocation)
			sess.POST("/next", handler.Next)
			sess.POST("/back", handler.Back)
			sess.POST("/diagnose", handler.Diagnose)
			sess.POST("/reset", handler.Reset)
			sess.GET("/report", handler.DownloadReport)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
