package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gigflow/gigflow-backend/internal/config"
	"github.com/gigflow/gigflow-backend/internal/handler"
	appmw "github.com/gigflow/gigflow-backend/internal/middleware"
	"github.com/gigflow/gigflow-backend/internal/notify"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/service"
	"github.com/gigflow/gigflow-backend/internal/ws"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e   *echo.Echo
	hub *ws.Hub
}

func New(db *gorm.DB, cfg *config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(cfg.ClientURL),
	}))

	userRepo := repository.NewUserRepository(db)
	gigRepo := repository.NewGigRepository(db)
	bidRepo := repository.NewBidRepository(db)
	convRepo := repository.NewConversationRepository(db)

	hub := ws.NewHub()
	notifier := notify.New(hub, userRepo)

	userSvc := service.NewUserService(userRepo)
	gigSvc := service.NewGigService(gigRepo, userRepo)
	bidSvc := service.NewBidService(bidRepo, gigRepo, userRepo, notifier)
	convSvc := service.NewConversationService(convRepo, bidRepo, gigRepo, userRepo, notifier)

	authHandler := handler.NewAuthHandler(userSvc, cfg.JWTSecret)
	gigHandler := handler.NewGigHandler(gigSvc, notifier)
	bidHandler := handler.NewBidHandler(bidSvc)
	convHandler := handler.NewConversationHandler(convSvc)
	wsHandler := handler.NewWSHandler(hub, cfg.JWTSecret)

	authMw := appmw.NewAuthMiddleware(cfg.JWTSecret)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	e.GET("/ws", wsHandler.Handle)

	api := e.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMw.RequireAuth)
	api.POST("/auth/logout", authHandler.Logout)
	api.PUT("/profile", authHandler.UpdateProfile, authMw.RequireAuth)

	api.POST("/gigs", gigHandler.Create, authMw.RequireAuth)
	api.GET("/gigs", gigHandler.List)
	api.GET("/gigs/my", gigHandler.ListMine, authMw.RequireAuth)
	api.GET("/gigs/:id", gigHandler.Get)

	api.POST("/bids", bidHandler.Create, authMw.RequireAuth)
	api.GET("/bids/my", bidHandler.ListMine, authMw.RequireAuth)
	api.GET("/bids/gig/:gigId", bidHandler.ListByGig)
	api.PATCH("/bids/:bidId/hire", bidHandler.Hire, authMw.RequireAuth)
	api.DELETE("/bids/:bidId/withdraw", bidHandler.Withdraw, authMw.RequireAuth)

	api.GET("/conversations/my", convHandler.ListMine, authMw.RequireAuth)
	api.POST("/conversations/bid/:bidId", convHandler.GetOrCreateByBid, authMw.RequireAuth)
	api.GET("/conversations/:conversationId/messages", convHandler.ListMessages, authMw.RequireAuth)
	api.POST("/conversations/:conversationId/messages", convHandler.SendMessage, authMw.RequireAuth)
	api.PATCH("/conversations/messages/:messageId", convHandler.EditMessage, authMw.RequireAuth)
	api.DELETE("/conversations/messages/:messageId", convHandler.DeleteMessage, authMw.RequireAuth)

	return &Server{e: e, hub: hub}
}

func allowOrigin(clientURL string) func(string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if clientURL != "" && low == strings.ToLower(clientURL) {
			return true, nil
		}
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		if strings.HasSuffix(u.Hostname(), "vercel.app") {
			return true, nil
		}
		return false, nil
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Hub exposes the websocket hub for tests.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}
