package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-backend/internal/app/handlers"
	"github.com/linemk/shop-backend/internal/domain/models"
	"github.com/linemk/shop-backend/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-backend/internal/service"
	"github.com/linemk/shop-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	user  *models.User
	token string
	err   error
}

var _ service.AuthServiceInterface = (*fakeAuthService)(nil)

func (f *fakeAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	return f.token, f.user, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return f.err
}

func (f *fakeAuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return f.user, f.err
}

// fakeItemService — фиктивная реализация интерфейса ItemService
type fakeItemService struct {
	item  *models.Item
	items []*models.Item
	err   error
}

var _ service.ItemService = (*fakeItemService)(nil)

func (f *fakeItemService) ListItems(ctx context.Context) ([]*models.Item, error) {
	return f.items, f.err
}

func (f *fakeItemService) GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	return f.item, f.err
}

func (f *fakeItemService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	return f.item, f.err
}

// fakeCartService — фиктивная реализация интерфейса CartService
type fakeCartService struct {
	view *service.CartView
	err  error
}

var _ service.CartService = (*fakeCartService)(nil)

func (f *fakeCartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*service.CartView, error) {
	return f.view, f.err
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*service.CartView, error) {
	return f.view, f.err
}

func (f *fakeCartService) UpdateQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*service.CartView, error) {
	return f.view, f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*service.CartView, error) {
	return f.view, f.err
}

func (f *fakeCartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*service.CartView, error) {
	return f.view, f.err
}

// fakeOrderService — фиктивная реализация интерфейса OrderService
type fakeOrderService struct {
	order  *models.Order
	orders []*models.Order
	err    error
}

var _ service.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrderService) GetOrder(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	return f.order, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func withUserID(req *http.Request, userID primitive.ObjectID) *http.Request {
	ctx := context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func testUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "testuser",
		Email:    "testuser@example.com",
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{user: testUser()}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "email": "testuser@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp struct {
		User handlers.UserPayload `json:"user"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "testuser", resp.User.Username)
	assert.Equal(t, "testuser@example.com", resp.User.Email)
}

func TestRegisterHandler_ValidationError(t *testing.T) {
	fakeSvc := &fakeAuthService{}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	// Пароль короче восьми символов
	reqBody := `{"username": "testuser", "email": "testuser@example.com", "password": "short"}`
	req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for validation error")
}

func TestRegisterHandler_DuplicateUser(t *testing.T) {
	fakeSvc := &fakeAuthService{err: storage.ErrUserExists}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "email": "testuser@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/users/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for duplicate user")
}

func TestLoginHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token", user: testUser()}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "password": "password123"}`
	req := httptest.NewRequest("POST", "/users/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp handlers.LoginResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	assert.Equal(t, "test-token", resp.Token, "Returned token should match fake token")
	assert.Equal(t, "testuser", resp.User.Username)
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	fakeSvc := &fakeAuthService{}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "password":`
	req := httptest.NewRequest("POST", "/users/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "password": "wrongpassword"}`
	req := httptest.NewRequest("POST", "/users/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid credentials")
}

func TestLoginHandler_SessionConflict(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrAlreadyLoggedIn}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "password": "password123"}`
	req := httptest.NewRequest("POST", "/users/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code, "Expected status 403 for active session")

	var resp handlers.ErrorResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "ALREADY_LOGGED_IN", resp.Code, "Session conflict should carry its code")
	assert.NotEmpty(t, resp.Error)
}

func TestLogoutHandler_Unauthorized(t *testing.T) {
	fakeSvc := &fakeAuthService{}
	handler := handlers.LogoutHandler(testLogger(), fakeSvc)

	// Не добавляем userID в контекст.
	req := httptest.NewRequest("POST", "/users/logout", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 when userID is missing")
}

func TestMeHandler_Success(t *testing.T) {
	user := testUser()
	fakeSvc := &fakeAuthService{user: user}
	handler := handlers.MeHandler(testLogger(), fakeSvc)

	req := withUserID(httptest.NewRequest("GET", "/users/me", nil), user.ID)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		User handlers.UserPayload `json:"user"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), resp.User.ID)
}

func TestListItemsHandler_EmptyCatalogIsArray(t *testing.T) {
	fakeSvc := &fakeItemService{items: nil}
	handler := handlers.ListItemsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/items", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rr.Body.Bytes())), "Empty catalog should encode as []")
}

func TestGetItemHandler_InvalidID(t *testing.T) {
	fakeSvc := &fakeItemService{}
	handler := handlers.GetItemHandler(testLogger(), fakeSvc)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-an-object-id")

	// Некорректный hex неотличим от отсутствующего товара
	req := httptest.NewRequest("GET", "/items/not-an-object-id", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for malformed id")
}

func TestCreateItemHandler_Success(t *testing.T) {
	item := &models.Item{
		ID:    primitive.NewObjectID(),
		Name:  "Smart Watch",
		Price: 399.99,
		Stock: 30,
	}
	fakeSvc := &fakeItemService{item: item}
	handler := handlers.CreateItemHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Smart Watch", "price": 399.99, "stock": 30}`
	req := httptest.NewRequest("POST", "/items", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp models.Item
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "Smart Watch", resp.Name)
}

func TestCreateItemHandler_NegativePrice(t *testing.T) {
	fakeSvc := &fakeItemService{}
	handler := handlers.CreateItemHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Smart Watch", "price": -1, "stock": 30}`
	req := httptest.NewRequest("POST", "/items", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for negative price")
}

func TestAddToCartHandler_Success(t *testing.T) {
	itemID := primitive.NewObjectID()
	view := &service.CartView{
		ID: primitive.NewObjectID(),
		Items: []service.CartLineView{
			{ItemID: itemID, Quantity: 2},
		},
	}
	fakeSvc := &fakeCartService{view: view}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"itemId": "` + itemID.Hex() + `", "quantity": 2}`
	req := withUserID(httptest.NewRequest("POST", "/cart/add", bytes.NewBufferString(reqBody)), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")

	var resp service.CartView
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestAddToCartHandler_InvalidItemID(t *testing.T) {
	fakeSvc := &fakeCartService{}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"itemId": "not-an-object-id", "quantity": 1}`
	req := withUserID(httptest.NewRequest("POST", "/cart/add", bytes.NewBufferString(reqBody)), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for malformed item id")
}

func TestAddToCartHandler_InsufficientStock(t *testing.T) {
	fakeSvc := &fakeCartService{err: service.ErrInsufficientStock}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"itemId": "` + primitive.NewObjectID().Hex() + `", "quantity": 100}`
	req := withUserID(httptest.NewRequest("POST", "/cart/add", bytes.NewBufferString(reqBody)), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for insufficient stock")

	var resp handlers.ErrorResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "insufficient stock", resp.Error)
}

func TestAddToCartHandler_ItemNotFound(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrItemNotFound}
	handler := handlers.AddToCartHandler(testLogger(), fakeSvc)

	reqBody := `{"itemId": "` + primitive.NewObjectID().Hex() + `"}`
	req := withUserID(httptest.NewRequest("POST", "/cart/add", bytes.NewBufferString(reqBody)), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for unknown item")
}

func TestUpdateCartHandler_QuantityTooSmall(t *testing.T) {
	fakeSvc := &fakeCartService{err: service.ErrQuantityTooSmall}
	handler := handlers.UpdateCartHandler(testLogger(), fakeSvc)

	itemID := primitive.NewObjectID().Hex()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("itemID", itemID)

	req := httptest.NewRequest("PUT", "/cart/update/"+itemID, bytes.NewBufferString(`{"quantity": 0}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = withUserID(req, primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for zero quantity")
}

func TestRemoveFromCartHandler_NoCart(t *testing.T) {
	fakeSvc := &fakeCartService{err: storage.ErrCartNotFound}
	handler := handlers.RemoveFromCartHandler(testLogger(), fakeSvc)

	itemID := primitive.NewObjectID().Hex()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("itemID", itemID)

	req := httptest.NewRequest("DELETE", "/cart/remove/"+itemID, nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = withUserID(req, primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 when cart does not exist")
}

func TestGetCartHandler_Unauthorized(t *testing.T) {
	fakeSvc := &fakeCartService{}
	handler := handlers.GetCartHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/cart", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected status 401 when userID is missing")
}

func TestCreateOrderHandler_Success(t *testing.T) {
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      primitive.NewObjectID(),
		TotalAmount: 599.98,
		Status:      models.OrderStatusPending,
		Items: []models.OrderLine{
			{ItemID: primitive.NewObjectID(), Name: "Wireless Headphones", Price: 299.99, Quantity: 2},
		},
	}
	fakeSvc := &fakeOrderService{order: order}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	req := withUserID(httptest.NewRequest("POST", "/orders", nil), order.UserID)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp struct {
		Order models.Order `json:"order"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, 599.98, resp.Order.TotalAmount)
	assert.Len(t, resp.Order.Items, 1)
	assert.Equal(t, "Wireless Headphones", resp.Order.Items[0].Name)
}

func TestCreateOrderHandler_EmptyCart(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrEmptyCart}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	req := withUserID(httptest.NewRequest("POST", "/orders", nil), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for empty cart")

	var resp handlers.ErrorResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "cart is empty", resp.Error)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: storage.ErrOrderNotFound}
	handler := handlers.GetOrderHandler(testLogger(), fakeSvc)

	orderID := primitive.NewObjectID().Hex()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", orderID)

	req := httptest.NewRequest("GET", "/orders/"+orderID, nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	req = withUserID(req, primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected status 404 for unknown order")
}

func TestListOrdersHandler_EmptyListIsArray(t *testing.T) {
	fakeSvc := &fakeOrderService{orders: nil}
	handler := handlers.ListOrdersHandler(testLogger(), fakeSvc)

	req := withUserID(httptest.NewRequest("GET", "/orders", nil), primitive.NewObjectID())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rr.Body.Bytes())), "Empty order list should encode as []")
}
