package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Статусы заказа. Здесь используется только начальный статус,
// дальнейшие переходы делаются вне этого сервиса.
const OrderStatusPending = "pending"

// OrderLine — позиция заказа. Имя и цена копируются из каталога
// в момент оформления и больше не меняются.
type OrderLine struct {
	ItemID   primitive.ObjectID `bson:"item" json:"itemId"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order представляет заказ — неизменяемый снимок корзины на момент оформления
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"userId"`
	Items       []OrderLine        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
