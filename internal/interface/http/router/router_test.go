package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshelf/internal/application/assistant"
	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcart "github.com/xiebiao/bookshelf/internal/application/cart"
	apporder "github.com/xiebiao/bookshelf/internal/application/order"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/ai"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	rediscache "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

const (
	adminEmail = "admin@example.com"
	password   = "Password123"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	repos  persistence.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{AllowOrigins: []string{"*"}},
		AI:     config.AIConfig{RatePerMinute: 60, Burst: 2},
	}
	logger := zap.NewNop()
	repos := memory.NewRepositories(memory.New())
	cache := rediscache.NewBookListCache(client, time.Minute)
	sessions := rediscache.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	userService := user.NewServiceWithCost(repos.Users, bcrypt.MinCost)
	publisher := mq.NopPublisher{}
	generator := ai.Disabled{}

	err := appuser.NewEnsureAdminUseCase(repos.Users, userService, logger).Execute(context.Background(), appuser.EnsureAdminRequest{
		Name:     "Admin",
		Email:    adminEmail,
		Password: password,
	})
	require.NoError(t, err)

	h := Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions, logger),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewRefreshTokenUseCase(repos.Users, jwtManager, sessions),
			appuser.NewProfileUseCase(repos.Users),
		),
		Book: handler.NewBookHandler(
			appbook.NewListBooksUseCase(repos.Books, cache, logger),
			appbook.NewGetBookUseCase(repos.Books),
			appbook.NewCreateBookUseCase(repos.Books, cache, logger),
			appbook.NewDeleteBookUseCase(repos.Books, repos.Carts, repos.Tx, cache, logger),
			appbook.NewSetStockUseCase(repos.Books, repos.Tx, cache, logger),
		),
		Cart: handler.NewCartHandler(
			appcart.NewGetCartUseCase(repos.Carts),
			appcart.NewAddToCartUseCase(repos.Books, repos.Carts, repos.Tx, cache, logger),
			appcart.NewRemoveFromCartUseCase(repos.Books, repos.Carts, repos.Tx, cache, logger),
		),
		Order: handler.NewOrderHandler(
			apporder.NewCheckoutUseCase(repos.Carts, repos.Orders, repos.Tx, publisher, logger),
			apporder.NewListOrdersUseCase(repos.Orders),
		),
		Admin: handler.NewAdminHandler(
			apporder.NewListAllOrdersUseCase(repos.Orders),
			apporder.NewSetStatusUseCase(repos.Orders, repos.Books, repos.Tx, cache, publisher, logger),
			appuser.NewListUsersUseCase(repos.Users),
			appuser.NewDeleteUserUseCase(repos.Users, repos.Carts, repos.Books, repos.Tx, cache, sessions, logger),
		),
		AI: handler.NewAIHandler(
			assistant.NewSummaryUseCase(generator),
			assistant.NewRoadmapUseCase(generator, repos.Books),
			assistant.NewChatUseCase(generator, repos.Books, logger),
		),
	}

	engine := New(cfg, h, middleware.NewAuthMiddleware(jwtManager, sessions), NewAIRateLimiter(cfg), logger)
	return &testServer{t: t, engine: engine, repos: repos}
}

func (s *testServer) do(method, path, token string, body interface{}) envelope {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ok 断言业务码为0并解析data
func (s *testServer) ok(resp envelope, out interface{}) {
	s.t.Helper()
	require.Equal(s.t, 0, resp.Code, resp.Message)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(resp.Data, out))
	}
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	var result appuser.LoginResponse
	s.ok(s.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": email, "password": password}), &result)
	return result.AccessToken
}

func (s *testServer) registerAndLogin(name, email string) string {
	s.t.Helper()
	s.ok(s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{"name": name, "email": email, "password": password}), nil)
	return s.login(email)
}

func (s *testServer) createBook(adminToken, title string, price int64, stock int) appbook.BookInfo {
	s.t.Helper()
	var info appbook.BookInfo
	s.ok(s.do(http.MethodPost, "/api/v1/books", adminToken, gin.H{
		"title":    title,
		"author":   "Author",
		"price":    price,
		"category": "Fiction",
		"stock":    stock,
	}), &info)
	return info
}

func (s *testServer) stock(bookID uint) int {
	s.t.Helper()
	var info appbook.BookInfo
	s.ok(s.do(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", bookID), "", nil), &info)
	return info.Stock
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, 0, resp.Code)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	t.Run("未登录", func(t *testing.T) {
		assert.Equal(t, 40100, s.do(http.MethodGet, "/api/v1/cart", "", nil).Code)
	})

	t.Run("非法Token", func(t *testing.T) {
		assert.Equal(t, 40101, s.do(http.MethodGet, "/api/v1/cart", "not-a-jwt", nil).Code)
	})

	t.Run("普通用户不能访问管理接口", func(t *testing.T) {
		token := s.registerAndLogin("Alice", "alice@example.com")
		assert.Equal(t, 40104, s.do(http.MethodGet, "/api/v1/admin/orders", token, nil).Code)
		assert.Equal(t, 40104, s.do(http.MethodPost, "/api/v1/books", token, gin.H{
			"title": "X", "author": "Y", "price": 100, "category": "Z", "stock": 1,
		}).Code)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		token := s.registerAndLogin("Bob", "bob@example.com")
		s.ok(s.do(http.MethodGet, "/api/v1/profile", token, nil), nil)
		s.ok(s.do(http.MethodPost, "/api/v1/users/logout", token, nil), nil)
		assert.Equal(t, 40102, s.do(http.MethodGet, "/api/v1/profile", token, nil).Code)
	})

	t.Run("参数校验", func(t *testing.T) {
		resp := s.do(http.MethodPost, "/api/v1/users/register", "", gin.H{"name": "C", "email": "bad", "password": "x"})
		assert.Equal(t, 40900, resp.Code)
	})
}

func TestShoppingFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail)
	alice := s.registerAndLogin("Alice", "alice@example.com")

	dune := s.createBook(admin, "Dune", 1299, 2)

	// 两本预占成功,第三本库存不足
	for i := 0; i < 2; i++ {
		s.ok(s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"book_id": dune.ID}), nil)
	}
	assert.Equal(t, 40001, s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"book_id": dune.ID}).Code)
	assert.Equal(t, 0, s.stock(dune.ID))

	var cartView appcart.GetCartResponse
	s.ok(s.do(http.MethodGet, "/api/v1/cart", alice, nil), &cartView)
	require.Len(t, cartView.Lines, 1)
	assert.Equal(t, 2, cartView.TotalItems)
	assert.Equal(t, int64(2598), cartView.Total)

	var created apporder.OrderInfo
	s.ok(s.do(http.MethodPost, "/api/v1/orders/checkout", alice, gin.H{
		"customer_name": "Alice",
		"address":       "1 Main St",
	}), &created)
	assert.Equal(t, int64(2598), created.Total)
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, 0, s.stock(dune.ID), "结算不改变库存")

	// 购物车已清空
	assert.Equal(t, 40006, s.do(http.MethodPost, "/api/v1/orders/checkout", alice, gin.H{
		"customer_name": "Alice",
		"address":       "1 Main St",
	}).Code)

	var mine []apporder.OrderInfo
	s.ok(s.do(http.MethodGet, "/api/v1/orders", alice, nil), &mine)
	require.Len(t, mine, 1)

	var all apporder.ListAllOrdersResponse
	s.ok(s.do(http.MethodGet, "/api/v1/admin/orders", admin, nil), &all)
	assert.Equal(t, 1, all.Count)
	assert.Equal(t, int64(2598), all.Revenue)

	statusPath := fmt.Sprintf("/api/v1/admin/orders/%d/status", created.ID)
	assert.Equal(t, 40900, s.do(http.MethodPut, statusPath, admin, gin.H{"status": "Lost"}).Code)

	var cancelled apporder.OrderInfo
	s.ok(s.do(http.MethodPut, statusPath, admin, gin.H{"status": "Cancelled"}), &cancelled)
	assert.Equal(t, "Cancelled", cancelled.Status)
	assert.Equal(t, 2, s.stock(dune.ID), "取消订单归还库存")

	assert.Equal(t, 40002, s.do(http.MethodPut, statusPath, admin, gin.H{"status": "Pending"}).Code)
}

func TestCart_Ownership(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail)
	alice := s.registerAndLogin("Alice", "alice@example.com")
	bob := s.registerAndLogin("Bob", "bob@example.com")

	book := s.createBook(admin, "Emma", 500, 3)

	var added appcart.AddToCartResponse
	s.ok(s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"book_id": book.ID}), &added)
	assert.Equal(t, 2, added.RemainingStock)

	linePath := fmt.Sprintf("/api/v1/cart/items/%d", added.Line.ID)
	assert.Equal(t, 40404, s.do(http.MethodDelete, linePath, bob, nil).Code)
	assert.Equal(t, 2, s.stock(book.ID))

	var removed appcart.RemoveFromCartResponse
	s.ok(s.do(http.MethodDelete, linePath, alice, nil), &removed)
	assert.Equal(t, 1, removed.Restocked)
	assert.Equal(t, 3, s.stock(book.ID))
}

func TestAdmin_Books(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail)
	alice := s.registerAndLogin("Alice", "alice@example.com")

	book := s.createBook(admin, "Ulysses", 2000, 5)
	s.ok(s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"book_id": book.ID}), nil)

	stockPath := fmt.Sprintf("/api/v1/books/%d/stock", book.ID)
	assert.Equal(t, 40900, s.do(http.MethodPatch, stockPath, admin, gin.H{"stock": -1}).Code)
	assert.Equal(t, 40900, s.do(http.MethodPatch, stockPath, admin, gin.H{}).Code)

	var updated appbook.BookInfo
	s.ok(s.do(http.MethodPatch, stockPath, admin, gin.H{"stock": 10}), &updated)
	assert.Equal(t, 10, updated.Stock)

	var list appbook.ListBooksResponse
	s.ok(s.do(http.MethodGet, "/api/v1/books?keyword=ulysses", "", nil), &list)
	require.Len(t, list.List, 1)
	assert.Equal(t, 10, list.List[0].Stock)

	s.ok(s.do(http.MethodDelete, fmt.Sprintf("/api/v1/books/%d", book.ID), admin, nil), nil)
	assert.Equal(t, 40402, s.do(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", book.ID), "", nil).Code)

	var cartView appcart.GetCartResponse
	s.ok(s.do(http.MethodGet, "/api/v1/cart", alice, nil), &cartView)
	assert.Empty(t, cartView.Lines)
}

func TestAdmin_Users(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail)
	alice := s.registerAndLogin("Alice", "alice@example.com")
	book := s.createBook(admin, "Beloved", 800, 1)
	s.ok(s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"book_id": book.ID}), nil)

	var users []appuser.UserInfo
	s.ok(s.do(http.MethodGet, "/api/v1/admin/users", admin, nil), &users)
	require.Len(t, users, 2)

	var aliceID, adminID uint
	for _, u := range users {
		if u.IsAdmin {
			adminID = u.ID
		} else {
			aliceID = u.ID
		}
	}

	assert.Equal(t, 40000, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", adminID), admin, nil).Code)

	s.ok(s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", aliceID), admin, nil), nil)
	assert.Equal(t, 1, s.stock(book.ID), "删除用户归还购物车库存")
}

func TestAI(t *testing.T) {
	s := newTestServer(t)

	// 未配置API Key
	resp := s.do(http.MethodPost, "/api/v1/ai/summary", "", gin.H{"title": "Dune", "author": "Frank Herbert"})
	assert.Equal(t, 50300, resp.Code)

	var chat assistant.ChatResponse
	s.ok(s.do(http.MethodPost, "/api/v1/ai/chat", "", gin.H{"message": "hi"}), &chat)
	assert.Equal(t, assistant.UnavailableReply, chat.Reply)

	// burst=2,已用完
	assert.Equal(t, 42900, s.do(http.MethodPost, "/api/v1/ai/roadmap", "", gin.H{"goal": "learn go"}).Code)
}
