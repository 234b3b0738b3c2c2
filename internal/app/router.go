package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/here-event-os/internal/handler"
	"github.com/noah-isme/here-event-os/internal/middleware"
	"github.com/noah-isme/here-event-os/pkg/config"
	corsmiddleware "github.com/noah-isme/here-event-os/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/here-event-os/pkg/middleware/requestid"
)

// NewRouter mounts every HTTP route on a fresh engine.
func NewRouter(c *Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(middleware.AccessLog(c.Logger.Named("http")))
	r.Use(corsmiddleware.New(c.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics))

	metricsHandler := handler.NewMetricsHandler(c.Metrics, c.Ready)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if c.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(c.Auth)
	approvalHandler := handler.NewApprovalHandler(c.Approvals)
	submissionHandler := handler.NewSubmissionHandler(c.Submissions)
	leadHandler := handler.NewLeadHandler(c.Leads)
	quoteHandler := handler.NewQuoteHandler(c.Quotes)

	api := r.Group(c.Config.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(c.Auth))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	secured.GET("/queues", approvalHandler.Queues)
	secured.GET("/queues/:queue/mine", approvalHandler.Mine)
	secured.POST("/queues/:queue/requests", submissionHandler.Submit)

	secured.POST("/requests/leave", submissionHandler.Leave)
	secured.POST("/requests/advance", submissionHandler.Advance)
	secured.POST("/requests/purchase", submissionHandler.Purchase)

	secured.POST("/leads", leadHandler.Create)

	secured.GET("/cart", quoteHandler.Cart)
	secured.DELETE("/cart", quoteHandler.Clear)
	secured.POST("/cart/items", quoteHandler.AddItem)
	secured.POST("/quotes", quoteHandler.Generate)

	manager := secured.Group("")
	manager.Use(middleware.RequireManager())
	manager.GET("/queues/:queue/pending", approvalHandler.Pending)
	manager.POST("/queues/:queue/requests/:position/approve", approvalHandler.Approve)
	manager.POST("/queues/:queue/requests/:position/reject", approvalHandler.Reject)
	manager.GET("/queues/:queue/export", approvalHandler.Export)
	manager.GET("/leads", leadHandler.List)
	manager.GET("/metrics/summary", metricsHandler.Summary)

	return r
}
