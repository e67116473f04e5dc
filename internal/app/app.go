package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/shop-backend/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Client *mongo.Client
	DB     *mongo.Database
}

// NewApp создаёт новый экземпляр App с подключением к MongoDB
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	uri := cfg.Database.URI
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%d", cfg.Database.Host, cfg.Database.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: log,
		Client: client,
		DB:     client.Database(cfg.Database.Name),
	}

	return app, nil
}

// Close отключает клиента от базы
func (a *App) Close(ctx context.Context) error {
	return a.Client.Disconnect(ctx)
}
