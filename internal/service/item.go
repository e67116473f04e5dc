package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/shop-backend/internal/domain/models"
	"github.com/linemk/shop-backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemService определяет интерфейс для работы с каталогом товаров.
type ItemService interface {
	ListItems(ctx context.Context) ([]*models.Item, error)
	GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
}

type itemService struct {
	log      *slog.Logger
	itemRepo storage.ItemStorage
}

func NewItemService(log *slog.Logger, itemRepo storage.ItemStorage) ItemService {
	return &itemService{
		log:      log,
		itemRepo: itemRepo,
	}
}

func (s *itemService) ListItems(ctx context.Context) ([]*models.Item, error) {
	const op = "service.ItemService.ListItems"

	items, err := s.itemRepo.ListItems(ctx)
	if err != nil {
		s.log.Error("failed to list items", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list items: %w", op, err)
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	const op = "service.ItemService.GetItem"

	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get item", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get item: %w", op, err)
	}
	return item, nil
}

// CreateItem добавляет товар в каталог (сидирование/админ)
func (s *itemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	const op = "service.ItemService.CreateItem"
	logger := s.log.With(slog.String("op", op), slog.String("name", item.Name))

	item.CreatedAt = time.Now()
	item, err := s.itemRepo.CreateItem(ctx, item)
	if err != nil {
		logger.Error("failed to create item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create item: %w", op, err)
	}

	logger.Info("item created", slog.String("itemID", item.ID.Hex()))
	return item, nil
}
