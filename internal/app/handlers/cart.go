package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-backend/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddToCartRequest — структура запроса на добавление товара в корзину.
// Количество по умолчанию — 1.
type AddToCartRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// UpdateCartRequest — структура запроса на изменение количества позиции
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// GetCartHandler обрабатывает запрос GET /cart.
// При первом обращении создаёт пользователю пустую корзину.
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		cart, err := cartService.GetCart(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cart)
	}
}

// AddToCartHandler обрабатывает запрос POST /cart/add
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation error"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(req.ItemID)
		if err != nil {
			logger.Warn("invalid item id", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		cart, err := cartService.AddItem(r.Context(), userID, itemID, quantity)
		if err != nil {
			logger.Error("failed to add item to cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cart)
	}
}

// UpdateCartHandler обрабатывает запрос PUT /cart/update/{itemID}
func UpdateCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
		if err != nil {
			logger.Warn("invalid item id", slog.Any("error", err))
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "item not in cart"})
			return
		}

		var req UpdateCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}

		cart, err := cartService.UpdateQuantity(r.Context(), userID, itemID, req.Quantity)
		if err != nil {
			logger.Error("failed to update cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cart)
	}
}

// RemoveFromCartHandler обрабатывает запрос DELETE /cart/remove/{itemID}.
// Удаление отсутствующей позиции — успешный no-op.
func RemoveFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveFromCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
		if err != nil {
			logger.Warn("invalid item id", slog.Any("error", err))
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "cart not found"})
			return
		}

		cart, err := cartService.RemoveItem(r.Context(), userID, itemID)
		if err != nil {
			logger.Error("failed to remove item from cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cart)
	}
}

// ClearCartHandler обрабатывает запрос DELETE /cart/clear
func ClearCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		cart, err := cartService.ClearCart(r.Context(), userID)
		if err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cart)
	}
}
