package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine — одна позиция корзины: ссылка на товар и количество.
// Дубликатов по товару в корзине не бывает: повторное добавление
// увеличивает количество существующей позиции.
type CartLine struct {
	ItemID   primitive.ObjectID `bson:"item" json:"itemId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart представляет корзину пользователя (одна на пользователя)
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Items     []CartLine         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
