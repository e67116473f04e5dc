package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/shop-backend/internal/app"
	"github.com/linemk/shop-backend/internal/app/handlers"
	"github.com/linemk/shop-backend/internal/config"
	"github.com/linemk/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-backend/internal/lib/logger"
	"github.com/linemk/shop-backend/internal/lib/logger/handlers/urllog"
	"github.com/linemk/shop-backend/internal/service"
	"github.com/linemk/shop-backend/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Close(ctx); err != nil {
			log.Error("failed to disconnect from db", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	itemRepo := storage.NewItemRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	itemService := service.NewItemService(application.Logger, itemRepo)
	cartService := service.NewCartService(application.Logger, cartRepo, itemRepo)
	orderService := service.NewOrderService(application.Logger, orderRepo, cartRepo, itemRepo)

	// открытые эндпоинты: каталог и вход/регистрация
	router.Get("/items", handlers.ListItemsHandler(application.Logger, itemService))
	router.Get("/items/{id}", handlers.GetItemHandler(application.Logger, itemService))
	router.Post("/items", handlers.CreateItemHandler(application.Logger, itemService))
	router.Post("/users/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/users/login", handlers.LoginHandler(application.Logger, authService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware(userRepo)
		r.Use(jwtMW)
		// эндпоинты профиля
		r.Post("/users/logout", handlers.LogoutHandler(application.Logger, authService))
		r.Get("/users/me", handlers.MeHandler(application.Logger, authService))
		// эндпоинты корзины
		r.Get("/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Post("/cart/add", handlers.AddToCartHandler(application.Logger, cartService))
		r.Put("/cart/update/{itemID}", handlers.UpdateCartHandler(application.Logger, cartService))
		r.Delete("/cart/remove/{itemID}", handlers.RemoveFromCartHandler(application.Logger, cartService))
		r.Delete("/cart/clear", handlers.ClearCartHandler(application.Logger, cartService))
		// эндпоинты заказов
		r.Post("/orders", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/orders/{id}", handlers.GetOrderHandler(application.Logger, orderService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
