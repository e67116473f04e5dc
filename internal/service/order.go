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

// ErrEmptyCart — заказ нельзя оформить из пустой или отсутствующей корзины
var ErrEmptyCart = errors.New("cart is empty")

// OrderService определяет операции над заказами пользователя.
type OrderService interface {
	CreateOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	cartRepo  storage.CartStorage
	itemRepo  storage.ItemStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, cartRepo storage.CartStorage, itemRepo storage.ItemStorage) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
	}
}

// CreateOrder оформляет заказ из корзины пользователя.
// Имя и цена каждой позиции копируются из каталога на момент оформления,
// totalAmount — сумма price×quantity по всем позициям. После сохранения заказа
// корзина опустошается отдельной записью: отката нет, при сбое второй записи
// заказ остаётся, а корзина — нет (редкая допустимая рассинхронизация).
// Остаток каталога при оформлении не списывается.
func (s *orderService) CreateOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.String("userID", userID.Hex()))
	logger.Info("creating order from cart")

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrCartNotFound) {
			logger.Warn("cart not found")
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
		}
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}
	if len(cart.Items) == 0 {
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	var totalAmount float64
	orderLines := make([]models.OrderLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		item, err := s.itemRepo.GetItemByID(ctx, line.ItemID)
		if err != nil {
			logger.Error("failed to resolve cart item", slog.String("itemID", line.ItemID.Hex()), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to resolve cart item: %w", op, err)
		}

		totalAmount += item.Price * float64(line.Quantity)
		orderLines = append(orderLines, models.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
		})
	}

	order := &models.Order{
		UserID:      userID,
		Items:       orderLines,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now(),
	}
	order, err = s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	cart.Items = []models.CartLine{}
	cart.UpdatedAt = time.Now()
	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		// Заказ уже сохранён, откатить его нечем
		logger.Error("order created but cart was not cleared", slog.String("orderID", order.ID.Hex()), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	logger.Info("order created", slog.String("orderID", order.ID.Hex()), slog.Float64("totalAmount", totalAmount))
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"

	order, err := s.orderRepo.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		s.log.Error("failed to get order", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	return order, nil
}
