package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coverstar/backend/internal/database"
	"github.com/coverstar/backend/internal/handlers"
	"github.com/coverstar/backend/internal/mailer"
	"github.com/coverstar/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()

	handler := handlers.NewHandler(db)

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	// Email outbox worker runs for the process lifetime
	go mailer.NewWorker(db.GetDB()).Start(context.Background())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logrus.Infof("Server starting on port %s", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Payment processor callback (public, processor-signed)
		api.POST("/payments/webhook", s.handler.Payment.Webhook)

		// Public reads
		api.GET("/contests", s.handler.Contest.GetContests)
		api.GET("/contests/:id", s.handler.Contest.GetContest)
		api.GET("/contests/:id/leaderboard", s.handler.Contest.GetLeaderboard)
		api.GET("/profiles/:id", s.handler.Profile.GetProfile)
		api.GET("/profiles/:id/votes", s.handler.Vote.GetProfileVotes)
		api.GET("/profiles/:id/multiplier", s.handler.Vote.GetMultiplier)
		api.GET("/profiles/:id/milestones", s.handler.Milestone.GetMilestones)
		api.GET("/profiles/:id/unlocks", s.handler.Milestone.GetUnlocks)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/profiles/:id", s.handler.Profile.UpdateProfile)

			protected.POST("/votes", s.handler.Vote.CastVote)

			protected.POST("/spin", s.handler.Spin.Spin)
			protected.GET("/spin/prizes", s.handler.Spin.GetPrizes)
			protected.POST("/spin/prizes/:id/claim", s.handler.Spin.ClaimPrize)

			protected.GET("/me/referrals", s.handler.Referral.GetMyReferrals)

			protected.POST("/payments", s.handler.Payment.CreatePayment)
			protected.GET("/me/payments", s.handler.Payment.GetMyPayments)

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/votes", s.handler.Admin.GetVoteReport)
				admin.GET("/stats", s.handler.Admin.GetStats)
				admin.POST("/contests", s.handler.Admin.CreateContest)
				admin.POST("/multiplier-periods", s.handler.Admin.CreateMultiplierPeriod)
				admin.GET("/multiplier-periods", s.handler.Admin.GetMultiplierPeriods)
				admin.DELETE("/multiplier-periods/:id", s.handler.Admin.DeactivateMultiplierPeriod)
			}
		}
	}

	return r
}
