package storage

import (
	"context"
	"errors"

	"github.com/linemk/shop-backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateToken(ctx context.Context, id primitive.ObjectID, token string) error
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserStorage {
	return &userRepository{coll: db.Collection("users")}
}

// CreateUser сохраняет нового пользователя. Перед вставкой проверяется,
// что username и email ещё не заняты
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": user.Username},
		bson.M{"email": user.Email},
	}}
	if err := r.coll.FindOne(ctx, filter).Err(); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// получение уже существующего пользователя
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user := &models.User{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateToken сохраняет токен сессии на пользователе;
// пустая строка означает, что сессии нет
func (r *userRepository) UpdateToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"token": token}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
