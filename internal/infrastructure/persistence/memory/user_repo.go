package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.s.run(ctx, func(t *tables) error {
		for _, existing := range t.users {
			if existing.Email == u.Email {
				return apperrors.ErrEmailDuplicate
			}
		}
		now := time.Now()
		u.ID = t.nextID()
		u.CreatedAt, u.UpdatedAt = now, now
		t.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var found *user.User
	err := r.s.run(ctx, func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		found = copyUser(u)
		return nil
	})
	return found, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var found *user.User
	err := r.s.run(ctx, func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				found = copyUser(u)
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
	return found, err
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	return r.s.run(ctx, func(t *tables) error {
		if _, ok := t.users[u.ID]; !ok {
			return apperrors.ErrUserNotFound
		}
		u.UpdatedAt = time.Now()
		t.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.s.run(ctx, func(t *tables) error {
		if _, ok := t.users[id]; !ok {
			return apperrors.ErrUserNotFound
		}
		delete(t.users, id)
		return nil
	})
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	users := make([]*user.User, 0)
	err := r.s.run(ctx, func(t *tables) error {
		for _, u := range t.users {
			users = append(users, copyUser(u))
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, err
}
