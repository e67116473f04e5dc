package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const baseURL = "http://localhost:8080"

// LoginResponse структура ответа при входе
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// ItemResponse – позиция каталога
type ItemResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// CartResponse – содержимое корзины
type CartResponse struct {
	Items []struct {
		ItemID   string        `json:"itemId"`
		Quantity int           `json:"quantity"`
		Item     *ItemResponse `json:"item"`
	} `json:"items"`
}

// OrderResponse – оформленный заказ
type OrderResponse struct {
	ID          string  `json:"id"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	Items       []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
}

// uniqueUsername генерирует имя, чтобы повторные запуски не конфликтовали
// с уже существующими пользователями и их активными сессиями.
func uniqueUsername(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

func registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	regBody := []byte(`{"username": "` + username + `", "email": "` + username + `@test.com", "password": "` + password + `"}`)
	resp, err := http.Post(baseURL+"/users/register", "application/json", bytes.NewBuffer(regBody))
	assert.NoError(t, err, "Register request should not error")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Expected 201 Created for registration")

	loginBody := []byte(`{"username": "` + username + `", "password": "` + password + `"}`)
	resp, err = http.Post(baseURL+"/users/login", "application/json", bytes.NewBuffer(loginBody))
	assert.NoError(t, err, "Login request should not error")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for valid login")

	var loginResp LoginResponse
	err = json.NewDecoder(resp.Body).Decode(&loginResp)
	assert.NoError(t, err, "Decoding login response should succeed")
	assert.NotEmpty(t, loginResp.Token, "Token should not be empty")
	return loginResp.Token
}

func doAuthorized(t *testing.T, method, path, token string, body []byte) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	return resp
}

// сценарий с успешной регистрацией и входом
func TestRegisterAndLogin(t *testing.T) {
	token := registerAndLogin(t, uniqueUsername("authuser"), "testpass123")
	assert.NotEmpty(t, token, "token should be obtained")
}

// сценарий с повторным входом при активной сессии
func TestLoginSessionConflict(t *testing.T) {
	username := uniqueUsername("conflict")
	_ = registerAndLogin(t, username, "testpass123")

	loginBody := []byte(`{"username": "` + username + `", "password": "testpass123"}`)
	resp, err := http.Post(baseURL+"/users/login", "application/json", bytes.NewBuffer(loginBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "expected 403 while session is active")

	var errResp struct {
		Code string `json:"code"`
	}
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	assert.NoError(t, err)
	assert.Equal(t, "ALREADY_LOGGED_IN", errResp.Code)
}

// сценарий выхода и повторного входа
func TestLogoutThenLogin(t *testing.T) {
	username := uniqueUsername("relogin")
	token := registerAndLogin(t, username, "testpass123")

	resp := doAuthorized(t, "POST", "/users/logout", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 for logout")

	loginBody := []byte(`{"username": "` + username + `", "password": "testpass123"}`)
	resp2, err := http.Post(baseURL+"/users/login", "application/json", bytes.NewBuffer(loginBody))
	assert.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode, "login after logout should succeed")
}

// сценарий с просмотром каталога (без авторизации)
func TestListItems(t *testing.T) {
	resp, err := http.Get(baseURL + "/items")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 OK for /items")

	var items []ItemResponse
	err = json.NewDecoder(resp.Body).Decode(&items)
	assert.NoError(t, err, "items response should be a JSON array")
}

// сценарий с получением корзины (пользователь не авторизован)
func TestGetCartUnauthorized(t *testing.T) {
	resp, err := http.Get(baseURL + "/cart")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 unauthorized for missing token")
}

// полный сценарий: товар в корзину, оформление заказа, проверка снимка
func TestCartToOrderFlow(t *testing.T) {
	token := registerAndLogin(t, uniqueUsername("buyer"), "testpass123")

	// Берём первый товар каталога (каталог заполняется сидером)
	resp, err := http.Get(baseURL + "/items")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var items []ItemResponse
	err = json.NewDecoder(resp.Body).Decode(&items)
	assert.NoError(t, err)
	if len(items) == 0 {
		t.Skip("catalog is empty, run the seeder first")
	}
	item := items[0]

	addBody := []byte(`{"itemId": "` + item.ID + `", "quantity": 2}`)
	respAdd := doAuthorized(t, "POST", "/cart/add", token, addBody)
	defer respAdd.Body.Close()
	assert.Equal(t, http.StatusOK, respAdd.StatusCode, "expected 200 for adding to cart")

	var cart CartResponse
	err = json.NewDecoder(respAdd.Body).Decode(&cart)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart should contain one line")
	assert.Equal(t, 2, cart.Items[0].Quantity)

	respOrder := doAuthorized(t, "POST", "/orders", token, nil)
	defer respOrder.Body.Close()
	assert.Equal(t, http.StatusCreated, respOrder.StatusCode, "expected 201 for order creation")

	var orderResp struct {
		Order OrderResponse `json:"order"`
	}
	err = json.NewDecoder(respOrder.Body).Decode(&orderResp)
	assert.NoError(t, err)
	assert.Equal(t, "pending", orderResp.Order.Status)
	assert.InDelta(t, 2*item.Price, orderResp.Order.TotalAmount, 1e-9, "total should be price times quantity")
	assert.Len(t, orderResp.Order.Items, 1)
	assert.Equal(t, item.Name, orderResp.Order.Items[0].Name, "order snapshots the item name")

	// Корзина пуста после оформления
	respCart := doAuthorized(t, "GET", "/cart", token, nil)
	defer respCart.Body.Close()
	assert.Equal(t, http.StatusOK, respCart.StatusCode)

	var emptyCart CartResponse
	err = json.NewDecoder(respCart.Body).Decode(&emptyCart)
	assert.NoError(t, err)
	assert.Empty(t, emptyCart.Items, "cart should be empty after order creation")

	// Заказ виден в списке заказов
	respList := doAuthorized(t, "GET", "/orders", token, nil)
	defer respList.Body.Close()
	assert.Equal(t, http.StatusOK, respList.StatusCode)

	var orders []OrderResponse
	err = json.NewDecoder(respList.Body).Decode(&orders)
	assert.NoError(t, err)
	assert.NotEmpty(t, orders, "order list should contain the new order")
}

// сценарий оформления заказа с пустой корзиной
func TestCreateOrderEmptyCart(t *testing.T) {
	token := registerAndLogin(t, uniqueUsername("emptycart"), "testpass123")

	resp := doAuthorized(t, "POST", "/orders", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for empty cart")
}
