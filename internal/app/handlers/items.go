package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-backend/internal/domain/models"
	"github.com/linemk/shop-backend/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateItemRequest — структура запроса на добавление товара в каталог
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ListItemsHandler обрабатывает запрос GET /items
func ListItemsHandler(log *slog.Logger, itemService service.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListItemsHandler"
		logger := log.With(slog.String("op", op))

		items, err := itemService.ListItems(r.Context())
		if err != nil {
			logger.Error("failed to list items", slog.Any("error", err))
			writeError(w, err)
			return
		}
		if items == nil {
			items = []*models.Item{}
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// GetItemHandler обрабатывает запрос GET /items/{id}.
// Некорректный идентификатор неотличим от отсутствующего товара.
func GetItemHandler(log *slog.Logger, itemService service.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetItemHandler"
		logger := log.With(slog.String("op", op))

		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			logger.Warn("invalid item id", slog.Any("error", err))
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "item not found"})
			return
		}

		item, err := itemService.GetItem(r.Context(), id)
		if err != nil {
			logger.Error("failed to get item", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// CreateItemHandler обрабатывает запрос POST /items (сидирование/админ, без авторизации)
func CreateItemHandler(log *slog.Logger, itemService service.ItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateItemHandler"
		logger := log.With(slog.String("op", op))

		var req CreateItemRequest
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

		item := &models.Item{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Image:       req.Image,
			Category:    req.Category,
			Stock:       req.Stock,
		}
		item, err := itemService.CreateItem(r.Context(), item)
		if err != nil {
			logger.Error("failed to create item", slog.Any("error", err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}
