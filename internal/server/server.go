package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitstudio/internal/booking"
	"fitstudio/internal/client"
	"fitstudio/internal/config"
	"fitstudio/internal/db"
	"fitstudio/internal/email"
	"fitstudio/internal/notification"
	"fitstudio/internal/plan"
	"fitstudio/internal/reporting"
	"fitstudio/internal/session"
	"fitstudio/internal/subscription"
	"fitstudio/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	ledger subscription.Service
}

func New(database *sqlx.DB, cfg *config.Config, emailService *email.Service, now func() time.Time) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, "/health", "/metrics", "/swagger/"))

	tx := db.NewTransactor(database)
	clientRepo := client.NewRepository(database)
	planRepo := plan.NewRepository(database)
	workoutRepo := workout.NewRepository(database)

	ledger := subscription.NewService(subscription.NewRepository(database), clientRepo, planRepo, tx)
	bookings := booking.NewService(booking.NewRepository(database), workoutRepo, clientRepo, ledger, tx)
	sessions := session.NewService(session.NewRepository(database), clientRepo, ledger, tx)
	monitor := notification.NewService(notification.NewRepository(database), emailService, cfg.LowCreditThreshold)
	reports := reporting.NewService(reporting.NewRepository(database), monitor, cfg.UpcomingDays)

	clientHandler := client.NewHandler(client.NewService(clientRepo))
	planHandler := plan.NewHandler(plan.NewService(planRepo))
	subscriptionHandler := subscription.NewHandler(ledger, now)
	workoutHandler := workout.NewHandler(workout.NewService(workoutRepo), now)
	bookingHandler := booking.NewHandler(bookings, now)
	sessionHandler := session.NewHandler(sessions, now)
	notificationHandler := notification.NewHandler(monitor, now)
	reportingHandler := reporting.NewHandler(reports, now)

	s := &Server{
		router: router,
		db:     database,
		config: cfg,
		email:  emailService,
		ledger: ledger,
	}

	router.GET("/health", s.Health)
	router.GET("/metrics", Metrics())
	if !cfg.IsProduction() {
		SetupSwagger(router)
	}

	clients := router.Group("/clients")
	{
		clients.POST("", clientHandler.Create)
		clients.GET("", clientHandler.List)
		clients.GET("/:id", clientHandler.Get)
		clients.PATCH("/:id/status", clientHandler.UpdateStatus)
		clients.GET("/:id/subscriptions", subscriptionHandler.ListByClient)
		clients.GET("/:id/subscriptions/active", subscriptionHandler.Active)
		clients.POST("/:id/subscriptions", subscriptionHandler.Purchase)
		clients.GET("/:id/bookings", bookingHandler.ListByClient)
		clients.GET("/:id/sessions", sessionHandler.ListByClient)
	}

	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.GET("/:id", subscriptionHandler.Get)
		subscriptions.POST("/:id/cancel", subscriptionHandler.Cancel)
		subscriptions.GET("/:id/transactions", subscriptionHandler.Transactions)
	}

	plans := router.Group("/plans")
	{
		plans.POST("", planHandler.Create)
		plans.GET("", planHandler.List)
		plans.PUT("/:id", planHandler.Update)
	}

	workouts := router.Group("/workouts")
	{
		workouts.POST("", workoutHandler.Create)
		workouts.GET("", workoutHandler.List)
		workouts.GET("/:id", workoutHandler.Get)
		workouts.PUT("/:id", workoutHandler.Update)
		workouts.PATCH("/:id/status", workoutHandler.UpdateStatus)
		workouts.GET("/:id/bookings", bookingHandler.ListByWorkout)
		workouts.POST("/:id/bookings", bookingHandler.Create)
	}

	bookingRoutes := router.Group("/bookings")
	{
		bookingRoutes.GET("/:id", bookingHandler.Get)
		bookingRoutes.POST("/:id/attend", bookingHandler.Attend)
		bookingRoutes.DELETE("/:id", bookingHandler.Cancel)
	}

	sessionRoutes := router.Group("/sessions")
	{
		sessionRoutes.POST("", sessionHandler.Schedule)
		sessionRoutes.GET("/:id", sessionHandler.Get)
		sessionRoutes.PUT("/:id", sessionHandler.Reschedule)
		sessionRoutes.POST("/:id/complete", sessionHandler.Complete)
		sessionRoutes.POST("/:id/cancel", sessionHandler.Cancel)
		sessionRoutes.POST("/:id/no-show", sessionHandler.NoShow)
	}

	notifications := router.Group("/notifications")
	{
		notifications.GET("/low-credits", notificationHandler.LowCredits)
		notifications.POST("/low-credits", notificationHandler.Notify)
	}

	router.GET("/dashboard", reportingHandler.Dashboard)

	return s
}

// Ledger exposes the subscription service for background jobs.
func (s *Server) Ledger() subscription.Service {
	return s.ledger
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
