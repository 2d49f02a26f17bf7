package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tour-booking-platform/internal/api"
	"tour-booking-platform/internal/auth"
	"tour-booking-platform/internal/cart"
	"tour-booking-platform/internal/config"
	"tour-booking-platform/internal/handlers"
	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/internal/payment"
	"tour-booking-platform/internal/storage"
	"tour-booking-platform/internal/stores"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Durable key-value store backing the cart and the payment handoff
	kv, err := storage.New(storage.Config{
		Dir:      cfg.Storage.Dir,
		RedisURL: cfg.Storage.RedisURL,
	})
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	defer kv.Close()

	cartStore, err := cart.NewStore(kv)
	if err != nil {
		log.Fatal("Failed to load cart:", err)
	}

	// Keep this instance's cart in step with writes from other
	// instances sharing the same storage.
	syncer := cart.NewSyncer(cartStore, kv)
	go syncer.Run(ctx)

	tracker := payment.NewTracker(kv)

	// Backend API client
	client := api.NewClient(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})

	// View stores: fetch once, page locally
	tourStore := stores.NewTourStore(client)
	orderStore := stores.NewOrderStore(client)
	chatStore := stores.NewChatStore(client)

	// Session store for the backend token pair
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	authSessions := auth.NewSessionStore(sessionStore)
	authMiddleware := middleware.NewAuthMiddleware(authSessions)

	secure := cfg.IsProduction()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(client, authSessions, secure)
	tourHandler := handlers.NewTourHandler(client, tourStore, cartStore)
	cartHandler := handlers.NewCartHandler(client, cartStore)
	paymentHandler := handlers.NewPaymentHandler(client, cartStore, tracker, cfg.Payment.HomeURL, secure)
	dashboardHandler := handlers.NewDashboardHandler(client, orderStore)
	chatHandler := handlers.NewChatHandler(chatStore)

	// Initialize router
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(authMiddleware.LoadAuth)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static/"))))

	// Public routes
	r.Get("/", tourHandler.ListTours)
	r.Get("/tours", tourHandler.ListTours)
	r.Get("/tours/fragment", tourHandler.ToursFragment)
	r.Get("/tours/{id}", tourHandler.TourDetail)

	// Auth routes. Credential posts are rate limited per IP.
	loginLimiter := middleware.NewAttemptLimiter(10, 15*time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.LimitAttempts(loginLimiter))
			r.Get("/login", authHandler.LoginPage)
			r.Post("/login", authHandler.Login)
			r.Get("/register", authHandler.RegisterPage)
			r.Post("/register", authHandler.Register)
		})

		r.Get("/confirm", authHandler.ConfirmAccount)
		r.Get("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	// Cart routes. Guests can build a cart; signing in is only needed
	// at checkout.
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.ViewCart)
		r.Post("/add", cartHandler.AddToCart)
		r.Post("/update", cartHandler.UpdateCartItem)
		r.Post("/remove", cartHandler.RemoveCartItem)
		r.Post("/clear", cartHandler.ClearCart)
	})

	// Checkout routes
	r.Route("/checkout", func(r chi.Router) {
		// The provider return leg must work even if the session
		// middleware could not authenticate the request.
		r.Get("/return", paymentHandler.Return)
		r.Get("/processing", paymentHandler.ProcessingPage)
		r.Get("/processing/tick", paymentHandler.ProcessingTick)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/", paymentHandler.CheckoutPage)
			r.Post("/", paymentHandler.ProcessCheckout)
		})
	})

	// Protected dashboard routes
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/orders", dashboardHandler.Orders)
		r.Get("/orders/fragment", dashboardHandler.OrdersFragment)
		r.Get("/orders/{id}", dashboardHandler.OrderDetail)
		r.Post("/orders/{id}/cancel", dashboardHandler.CancelOrder)
		r.Post("/orders/{id}/rate", dashboardHandler.RateOrder)
		r.Get("/profile", dashboardHandler.Profile)
		r.Post("/profile/avatar", dashboardHandler.UploadAvatar)
	})

	// Chat routes
	r.Route("/chat", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", chatHandler.ChatPage)
		r.Post("/send", chatHandler.Send)
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
