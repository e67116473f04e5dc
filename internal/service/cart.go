package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/shop-backend/internal/domain/models"
	"github.com/linemk/shop-backend/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInsufficientStock — запрошенное количество больше остатка каталога.
	// Сравнивается только запрошенное количество с полным остатком,
	// уже лежащее в корзине не учитывается.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrQuantityTooSmall — количество в позиции должно быть не меньше 1
	ErrQuantityTooSmall = errors.New("quantity must be at least 1")
	// ErrItemNotInCart — позиция с таким товаром в корзине отсутствует
	ErrItemNotInCart = errors.New("item not in cart")
)

// CartLineView — позиция корзины с подтянутой текущей карточкой товара.
// Корзина не хранит снимок цены: item отражает каталог на момент чтения
// и может быть nil, если товар из каталога исчез.
type CartLineView struct {
	ItemID   primitive.ObjectID `json:"itemId"`
	Item     *models.Item       `json:"item"`
	Quantity int                `json:"quantity"`
}

// CartView — корзина в том виде, в котором она отдаётся наружу
type CartView struct {
	ID        primitive.ObjectID `json:"id"`
	UserID    primitive.ObjectID `json:"userId"`
	Items     []CartLineView     `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CartService определяет операции над корзиной пользователя.
type CartService interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error)
	AddItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*CartView, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error)
}

type cartService struct {
	log      *slog.Logger
	cartRepo storage.CartStorage
	itemRepo storage.ItemStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, itemRepo storage.ItemStorage) CartService {
	return &cartService{
		log:      log,
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

// GetCart возвращает корзину пользователя. При первом обращении корзины ещё
// нет — тогда создаётся и сохраняется пустая (чтение с побочной записью).
func (s *cartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	const op = "service.CartService.GetCart"
	logger := s.log.With(slog.String("op", op), slog.String("userID", userID.Hex()))

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if errors.Is(err, storage.ErrCartNotFound) {
		logger.Info("cart not found, creating empty cart")
		cart, err = s.cartRepo.CreateCart(ctx, emptyCart(userID))
	}
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	return s.resolveCart(ctx, cart)
}

// AddItem добавляет товар в корзину. Если позиция с таким товаром уже есть,
// количество увеличивается на запрошенное (без повторной проверки остатка),
// иначе добавляется новая позиция.
func (s *cartService) AddItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*CartView, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("userID", userID.Hex()),
		slog.String("itemID", itemID.Hex()),
		slog.Int("quantity", quantity),
	)
	logger.Info("adding item to cart")

	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		logger.Error("failed to get item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get item: %w", op, err)
	}

	if item.Stock < quantity {
		logger.Warn("insufficient stock", slog.Int("stock", item.Stock))
		return nil, fmt.Errorf("%s: %w", op, ErrInsufficientStock)
	}

	cart, created, err := s.findOrNewCart(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartLine{ItemID: itemID, Quantity: quantity})
	}
	cart.UpdatedAt = time.Now()

	if err := s.saveCart(ctx, cart, created); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save cart: %w", op, err)
	}

	logger.Info("item added to cart")
	return s.resolveCart(ctx, cart)
}

// UpdateQuantity устанавливает точное количество для позиции.
// Остаток каталога здесь не перепроверяется.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*CartView, error) {
	const op = "service.CartService.UpdateQuantity"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("userID", userID.Hex()),
		slog.String("itemID", itemID.Hex()),
		slog.Int("quantity", quantity),
	)

	if quantity < 1 {
		logger.Warn("quantity too small")
		return nil, fmt.Errorf("%s: %w", op, ErrQuantityTooSmall)
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		logger.Warn("item not in cart")
		return nil, fmt.Errorf("%s: %w", op, ErrItemNotInCart)
	}
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save cart: %w", op, err)
	}

	logger.Info("cart quantity updated")
	return s.resolveCart(ctx, cart)
}

// RemoveItem удаляет позицию из корзины. Отсутствие позиции — не ошибка,
// остальные позиции не трогаются.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*CartView, error) {
	const op = "service.CartService.RemoveItem"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("userID", userID.Hex()),
		slog.String("itemID", itemID.Hex()),
	)

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	filtered := cart.Items[:0]
	for _, line := range cart.Items {
		if line.ItemID != itemID {
			filtered = append(filtered, line)
		}
	}
	cart.Items = filtered
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save cart: %w", op, err)
	}

	logger.Info("item removed from cart")
	return s.resolveCart(ctx, cart)
}

// ClearCart опустошает корзину; сама корзина при этом не удаляется
func (s *cartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	const op = "service.CartService.ClearCart"
	logger := s.log.With(slog.String("op", op), slog.String("userID", userID.Hex()))

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	cart.Items = []models.CartLine{}
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to save cart: %w", op, err)
	}

	logger.Info("cart cleared")
	return s.resolveCart(ctx, cart)
}

func emptyCart(userID primitive.ObjectID) *models.Cart {
	return &models.Cart{
		UserID:    userID,
		Items:     []models.CartLine{},
		UpdatedAt: time.Now(),
	}
}

// findOrNewCart возвращает корзину пользователя либо новую несохранённую;
// второй результат сообщает, что корзину ещё предстоит создать в базе
func (s *cartService) findOrNewCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, bool, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if errors.Is(err, storage.ErrCartNotFound) {
		return emptyCart(userID), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cart, false, nil
}

func (s *cartService) saveCart(ctx context.Context, cart *models.Cart, created bool) error {
	if created {
		_, err := s.cartRepo.CreateCart(ctx, cart)
		return err
	}
	return s.cartRepo.SaveCart(ctx, cart)
}

// resolveCart подтягивает к каждой позиции текущую карточку товара из каталога.
// Пропавший из каталога товар отдаётся позицией с item == nil.
func (s *cartService) resolveCart(ctx context.Context, cart *models.Cart) (*CartView, error) {
	view := &CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]CartLineView, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Items {
		item, err := s.itemRepo.GetItemByID(ctx, line.ItemID)
		if err != nil && !errors.Is(err, storage.ErrItemNotFound) {
			return nil, fmt.Errorf("failed to resolve cart item: %w", err)
		}
		view.Items = append(view.Items, CartLineView{
			ItemID:   line.ItemID,
			Item:     item,
			Quantity: line.Quantity,
		})
	}
	return view, nil
}
