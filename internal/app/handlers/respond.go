package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/shop-backend/internal/service"
	"github.com/linemk/shop-backend/internal/storage"
)

var validate = validator.New()

// ErrorResponse — единый формат тела ошибки: {"error": "..."},
// для конфликта сессий дополнительно приходит code
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON сериализует ответ; ошибки кодирования здесь уже не спасти,
// статус к этому моменту отправлен
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// businessErrors — таблица соответствия ожидаемых ошибок бизнес-логики
// HTTP-статусам. Всё, что в таблицу не попало, отдаётся как 500
// с исходным сообщением.
var businessErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrAlreadyLoggedIn, http.StatusForbidden, "ALREADY_LOGGED_IN"},
	{service.ErrInvalidCredentials, http.StatusBadRequest, ""},
	{service.ErrInsufficientStock, http.StatusBadRequest, ""},
	{service.ErrQuantityTooSmall, http.StatusBadRequest, ""},
	{service.ErrEmptyCart, http.StatusBadRequest, ""},
	{storage.ErrUserExists, http.StatusBadRequest, ""},
	{service.ErrItemNotInCart, http.StatusNotFound, ""},
	{storage.ErrItemNotFound, http.StatusNotFound, ""},
	{storage.ErrCartNotFound, http.StatusNotFound, ""},
	{storage.ErrOrderNotFound, http.StatusNotFound, ""},
	{storage.ErrUserNotFound, http.StatusNotFound, ""},
}

func writeError(w http.ResponseWriter, err error) {
	for _, be := range businessErrors {
		if errors.Is(err, be.err) {
			writeJSON(w, be.status, ErrorResponse{Error: be.err.Error(), Code: be.code})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
