package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/shop-backend/internal/domain/models"
	security "github.com/linemk/shop-backend/internal/jwt-new"
	"github.com/linemk/shop-backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials возвращается и для неизвестного логина, и для
	// неверного пароля, чтобы не раскрывать, что именно не совпало
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAlreadyLoggedIn — у пользователя уже есть активная сессия,
	// повторный вход отклоняется, старая сессия не вытесняется
	ErrAlreadyLoggedIn = errors.New("already logged in on another device")
)

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		tokenTTL: tokenTTL,
	}
}

type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// Register создаёт нового пользователя. Пароль хэшируется через bcrypt
// (который автоматически добавляет соль), уникальность username/email
// проверяет хранилище.
func (a *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "auth.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
	}
	user, err = a.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.String("userID", user.ID.Hex()))
	return user, nil
}

// Login осуществляет аутентификацию пользователя.
// Если у пользователя уже сохранён токен сессии, вход отклоняется — проверка
// идёт до сверки пароля, как и в исходной версии API. После успешной проверки
// генерируется JWT-токен и сохраняется на пользователе (одна активная сессия).
func (a *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if user.Token != "" {
		logger.Warn("active session exists, rejecting login")
		return "", nil, fmt.Errorf("%s: %w", op, ErrAlreadyLoggedIn)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	// Генерация JWT-токена. Функция security.NewToken внутри сама загружает секрет из переменной окружения JWT_SECRET.
	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	if err := a.userRepo.UpdateToken(ctx, user.ID, token); err != nil {
		logger.Error("failed to store token", slog.Any("error", err))
		return "", nil, fmt.Errorf("%s: failed to store token: %w", op, err)
	}
	user.Token = token

	logger.Info("user logged in successfully", slog.String("userID", user.ID.Hex()))
	return token, user, nil
}

// Logout сбрасывает токен сессии. Операция идемпотентна: повторный
// вызов для уже разлогиненного пользователя тоже успешен.
func (a *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	const op = "auth.Logout"
	logger := a.log.With(slog.String("op", op), slog.String("userID", userID.Hex()))

	if err := a.userRepo.UpdateToken(ctx, userID, ""); err != nil {
		logger.Error("failed to clear token", slog.Any("error", err))
		return fmt.Errorf("%s: failed to clear token: %w", op, err)
	}

	logger.Info("user logged out")
	return nil
}

func (a *AuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	const op = "auth.GetUser"

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		a.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}
