package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/domain/order"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	rediscache "github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
)

type fixture struct {
	mr       *miniredis.Miniredis
	repos    persistence.Repositories
	sessions *rediscache.SessionStore
	jwt      *jwt.Manager
	service  user.Service

	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshTokenUseCase
	profile  *ProfileUseCase
	list     *ListUsersUseCase
	remove   *DeleteUserUseCase
	ensure   *EnsureAdminUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repos := memory.NewRepositories(memory.New())
	sessions := rediscache.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	service := user.NewServiceWithCost(repos.Users, bcrypt.MinCost)
	logger := zap.NewNop()

	return &fixture{
		mr:       mr,
		repos:    repos,
		sessions: sessions,
		jwt:      jwtManager,
		service:  service,
		register: NewRegisterUseCase(service),
		login:    NewLoginUseCase(service, jwtManager, sessions, logger),
		logout:   NewLogoutUseCase(sessions),
		refresh:  NewRefreshTokenUseCase(repos.Users, jwtManager, sessions),
		profile:  NewProfileUseCase(repos.Users),
		list:     NewListUsersUseCase(repos.Users),
		remove:   NewDeleteUserUseCase(repos.Users, repos.Carts, repos.Books, repos.Tx, book.NopListCache{}, sessions, logger),
		ensure:   NewEnsureAdminUseCase(repos.Users, service, logger),
	}
}

func (f *fixture) mustRegister(t *testing.T, name, email string) *UserInfo {
	t.Helper()
	info, err := f.register.Execute(context.Background(), RegisterRequest{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return info
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info := f.mustRegister(t, "张三", "Zhang@Example.com")
	assert.Equal(t, "zhang@example.com", info.Email)
	assert.False(t, info.IsAdmin)

	_, err := f.register.Execute(ctx, RegisterRequest{Name: "李四", Email: "zhang@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "zhang@example.com", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)

	session, err := f.sessions.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])
	assert.InDelta(t, (24 * time.Hour).Seconds(), f.mr.TTL(fmt.Sprintf("session:%d", info.ID)).Seconds(), 1)

	_, err = f.login.Execute(ctx, LoginRequest{Email: "zhang@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLogoutAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	info := f.mustRegister(t, "张三", "zhang@example.com")

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "zhang@example.com", Password: "secret123"})
	require.NoError(t, err)

	pair, err := f.refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = f.refresh.Execute(ctx, resp.AccessToken+"x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.logout.Execute(ctx, LogoutRequest{
		UserID:      info.ID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}))

	revoked, err := f.sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.InDelta(t, (30 * time.Minute).Seconds(), f.mr.TTL("blacklist:"+resp.AccessToken).Seconds(), 2)

	_, err = f.refresh.Execute(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestProfileAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustRegister(t, "张三", "zhang@example.com")
	f.mustRegister(t, "李四", "li@example.com")

	got, err := f.profile.Execute(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "张三", got.Name)

	_, err = f.profile.Execute(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	users, err := f.list.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDeleteUser_ReleasesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.mustRegister(t, "管理员", "admin@example.com")
	buyer := f.mustRegister(t, "张三", "zhang@example.com")

	b := book.NewBook("Dune", "Frank Herbert", "SciFi", "", 4500, 5)
	require.NoError(t, f.repos.Books.Create(ctx, b))
	line := cart.NewLine(buyer.ID, b)
	require.NoError(t, f.repos.Carts.Create(ctx, line))
	require.NoError(t, f.repos.Carts.UpdateQuantity(ctx, line.ID, 3))
	require.NoError(t, f.repos.Books.UpdateStock(ctx, b.ID, -3))

	o := order.NewFromCart("ORD1", buyer.ID, "张三", "北京", []*cart.Line{line})
	require.NoError(t, f.repos.Orders.Create(ctx, o))

	_, err := f.login.Execute(ctx, LoginRequest{Email: "zhang@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("不能删除自己", func(t *testing.T) {
		err := f.remove.Execute(ctx, DeleteUserRequest{OperatorID: admin.ID, UserID: admin.ID})
		assert.ErrorIs(t, err, ErrDeleteSelf)
	})

	require.NoError(t, f.remove.Execute(ctx, DeleteUserRequest{OperatorID: admin.ID, UserID: buyer.ID}))

	got, err := f.repos.Books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	lines, err := f.repos.Carts.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	orders, err := f.repos.Orders.ListByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.sessions.GetSession(ctx, buyer.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = f.remove.Execute(ctx, DeleteUserRequest{OperatorID: admin.ID, UserID: buyer.ID})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// 邮箱释放,可以重新注册
	again := f.mustRegister(t, "张三", "zhang@example.com")
	assert.NotEqual(t, buyer.ID, again.ID)
}

// lockLog 记录删除用户时的加锁顺序
type lockLog struct {
	calls []string
}

type recordingBooks struct {
	book.Repository
	log *lockLog
}

func (r recordingBooks) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	r.log.calls = append(r.log.calls, fmt.Sprintf("lock book %d", id))
	return r.Repository.LockByID(ctx, id)
}

func (r recordingBooks) UpdateStock(ctx context.Context, id uint, delta int) error {
	r.log.calls = append(r.log.calls, fmt.Sprintf("stock book %d +%d", id, delta))
	return r.Repository.UpdateStock(ctx, id, delta)
}

type recordingCarts struct {
	cart.Repository
	log *lockLog
}

func (r recordingCarts) LockByUser(ctx context.Context, userID uint) ([]*cart.Line, error) {
	r.log.calls = append(r.log.calls, "lock lines")
	return r.Repository.LockByUser(ctx, userID)
}

func TestDeleteUser_LocksBooksFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.mustRegister(t, "管理员", "admin@example.com")
	buyer := f.mustRegister(t, "张三", "zhang@example.com")

	b1 := book.NewBook("Dune", "Frank Herbert", "SciFi", "", 4500, 5)
	b2 := book.NewBook("Emma", "Jane Austen", "Classic", "", 3000, 5)
	require.NoError(t, f.repos.Books.Create(ctx, b1))
	require.NoError(t, f.repos.Books.Create(ctx, b2))

	// 先加b2再加b1,行顺序与图书id相反
	for _, b := range []*book.Book{b2, b1} {
		require.NoError(t, f.repos.Carts.Create(ctx, cart.NewLine(buyer.ID, b)))
		require.NoError(t, f.repos.Books.UpdateStock(ctx, b.ID, -1))
	}

	log := &lockLog{}
	remove := NewDeleteUserUseCase(
		f.repos.Users,
		recordingCarts{Repository: f.repos.Carts, log: log},
		recordingBooks{Repository: f.repos.Books, log: log},
		f.repos.Tx, book.NopListCache{}, f.sessions, zap.NewNop(),
	)
	require.NoError(t, remove.Execute(ctx, DeleteUserRequest{OperatorID: admin.ID, UserID: buyer.ID}))

	assert.Equal(t, []string{
		fmt.Sprintf("lock book %d", b1.ID),
		fmt.Sprintf("lock book %d", b2.ID),
		"lock lines",
		fmt.Sprintf("stock book %d +1", b1.ID),
		fmt.Sprintf("stock book %d +1", b2.ID),
	}, log.calls)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("未配置时跳过", func(t *testing.T) {
		require.NoError(t, f.ensure.Execute(ctx, EnsureAdminRequest{}))
		users, err := f.list.Execute(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("创建管理员", func(t *testing.T) {
		require.NoError(t, f.ensure.Execute(ctx, EnsureAdminRequest{Email: "Root@Example.com", Password: "admin1234"}))

		resp, err := f.login.Execute(ctx, LoginRequest{Email: "root@example.com", Password: "admin1234"})
		require.NoError(t, err)
		assert.True(t, resp.User.IsAdmin)
		assert.Equal(t, "Admin", resp.User.Name)

		// 重复执行不报错
		require.NoError(t, f.ensure.Execute(ctx, EnsureAdminRequest{Email: "root@example.com", Password: "admin1234"}))
	})

	t.Run("已有用户提升为管理员", func(t *testing.T) {
		existing := f.mustRegister(t, "张三", "zhang@example.com")
		require.NoError(t, f.ensure.Execute(ctx, EnsureAdminRequest{Email: "zhang@example.com", Password: "whatever1"}))

		got, err := f.profile.Execute(ctx, existing.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAdmin)

		// 密码保持不变
		_, err = f.login.Execute(ctx, LoginRequest{Email: "zhang@example.com", Password: "secret123"})
		require.NoError(t, err)
	})

	t.Run("弱密码", func(t *testing.T) {
		err := f.ensure.Execute(ctx, EnsureAdminRequest{Email: "weak@example.com", Password: "123"})
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})
}
