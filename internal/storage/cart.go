package storage

import (
	"context"
	"errors"

	"github.com/linemk/shop-backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStorage описывает методы для работы с корзинами.
// Корзина одна на пользователя и никогда не удаляется.
type CartStorage interface {
	GetCartByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	// SaveCart перезаписывает состав корзины и updatedAt.
	SaveCart(ctx context.Context, cart *models.Cart) error
}

type cartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartStorage {
	return &cartRepository{coll: db.Collection("carts")}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(cart); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	res, err := r.coll.InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	update := bson.M{"$set": bson.M{
		"items":     cart.Items,
		"updatedAt": cart.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": cart.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
