package storage

import (
	"context"
	"errors"

	"github.com/linemk/shop-backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrItemNotFound = errors.New("item not found")

// ItemStorage описывает методы для работы с каталогом товаров.
type ItemStorage interface {
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	// ListItems возвращает все товары, новые первыми.
	ListItems(ctx context.Context) ([]*models.Item, error)
}

type itemRepository struct {
	coll *mongo.Collection
}

func NewItemRepository(db *mongo.Database) ItemStorage {
	return &itemRepository{coll: db.Collection("items")}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

func (r *itemRepository) GetItemByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	item := &models.Item{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) ListItems(ctx context.Context) ([]*models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
