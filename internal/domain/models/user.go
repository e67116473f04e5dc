package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User представляет пользователя
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"` // Уникальный логин
	Email    string             `bson:"email"`    // Уникальный email
	PassHash []byte             `bson:"passHash"`
	Token    string             `bson:"token"` // Текущий токен сессии; пустая строка — сессии нет
}
