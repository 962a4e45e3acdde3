package memory

import (
	"context"
	"strings"

	"github.com/xiebiao/bookstore-api/internal/domain/user"
)

// UserRepository 用户仓储内存实现
type UserRepository struct {
	store *Store
}

// NewUserRepository 创建用户仓储
func NewUserRepository(store *Store) user.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.store.write(ctx, func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
				return user.ErrUserDuplicate
			}
		}
		st.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var found *user.User
	err := r.store.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		found = copyUser(u)
		return nil
	})
	return found, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var found *user.User
	err := r.store.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found = copyUser(u)
				return nil
			}
		}
		return user.ErrUserNotFound
	})
	return found, err
}
