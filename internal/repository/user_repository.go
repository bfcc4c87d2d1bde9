package repository

import (
	"context"

	"github.com/gigflow/gigflow-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error)
	ListIDs(ctx context.Context, exclude ...uint64) ([]uint64, error)
	Update(ctx context.Context, u *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error) {
	users := make(map[uint64]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var list []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		users[u.ID] = u
	}
	return users, nil
}

// ListIDs returns every user ID except the excluded ones. Broadcast
// notifications iterate this set.
func (r *userRepository) ListIDs(ctx context.Context, exclude ...uint64) ([]uint64, error) {
	var ids []uint64
	q := r.db.WithContext(ctx).Model(&model.User{})
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
