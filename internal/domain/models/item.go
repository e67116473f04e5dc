package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item представляет товар каталога
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"` // Цена, неотрицательная
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"` // Остаток на складе; проверяется при добавлении в корзину, но не списывается
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
