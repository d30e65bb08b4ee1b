package routes

import (
	"time"

	"agency_estimate/internal/adapter/http/handlers"
	"agency_estimate/internal/adapter/http/middleware"
	"agency_estimate/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	PathSessions  = "/sessions"
	PathEstimates = "/estimates"
	PathPayments  = "/payments"
	PathDrafts    = "/drafts"
	PathPing      = "/ping"
)

// Dependencies is everything the HTTP layer needs. A nil Verifier serves the
// authenticated groups with the development user fallback.
type Dependencies struct {
	Sessions  usecase.ISessionUseCase
	Estimates usecase.IEstimateUseCase
	Payments  usecase.IPaymentUseCase
	Drafts    usecase.IDraftUseCase
	Verifier  middleware.TokenVerifier

	CORSAllowedOrigins []string
	DraftsPerMinute    int
	Version            string
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, deps.CORSAllowedOrigins)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authMiddleware := middleware.OptionalUser()
	if deps.Verifier != nil {
		authMiddleware = middleware.FirebaseAuth(deps.Verifier)
	}

	v1 := router.Group("/v1")

	// Rotas publicas
	addPingRoutes(v1, handlers.NewHealthHandler(deps.Version))
	addSessionRoutes(v1, handlers.NewSessionHandler(deps.Sessions))
	addDraftRoutes(v1, handlers.NewDraftHandler(deps.Drafts), middleware.NewIPRateLimiter(deps.DraftsPerMinute))

	// Rotas autenticadas
	authed := v1.Group("", authMiddleware)
	addEstimateRoutes(authed, handlers.NewEstimateHandler(deps.Estimates))
	addPaymentRoutes(authed, handlers.NewPaymentHandler(deps.Payments))

	return router
}

func setMiddlewares(router *gin.Engine, allowedOrigins []string) {
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.DevUserIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
}

func addPingRoutes(rg *gin.RouterGroup, h *handlers.HealthHandler) {
	rg.GET(PathPing, h.Ping)
}

func addSessionRoutes(rg *gin.RouterGroup, h *handlers.SessionHandler) {
	sessions := rg.Group(PathSessions)
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:session_id", h.GetSession)
		sessions.DELETE("/:session_id", h.EndSession)
		sessions.PUT("/:session_id/step", h.SetCurrentStep)
		sessions.PUT("/:session_id/selections/:step_id", h.UpdateSelection)
		sessions.POST("/:session_id/reset", h.ResetFlow)
		sessions.PUT("/:session_id/invoice", h.LoadInvoice)
		sessions.PATCH("/:session_id/items/:item_id/toggle", h.ToggleItem)
	}
}

func addDraftRoutes(rg *gin.RouterGroup, h *handlers.DraftHandler, limiter *middleware.IPRateLimiter) {
	rg.POST(PathDrafts, middleware.RateLimit(limiter), h.CreateDraft)
}

func addEstimateRoutes(rg *gin.RouterGroup, h *handlers.EstimateHandler) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", h.SaveEstimate)
		estimates.GET("", h.ListMyEstimates)
		estimates.GET("/:estimate_id", h.GetEstimate)
		estimates.PATCH("/:estimate_id/items/:item_id/toggle", h.ToggleItem)
		estimates.PATCH("/:estimate_id/approve", h.ApproveEstimate)
		estimates.PATCH("/:estimate_id/reject", h.RejectEstimate)
		estimates.PATCH("/:estimate_id/cancel", h.CancelEstimate)
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("/:estimate_id", h.CreatePaymentByEstimateID)
		payments.GET("/:estimate_id", h.GetPaymentByEstimateID)
	}
}
