package store

import (
	"context"
	"errors"

	"spyserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// userStore is the GORM-backed UserStore.
type userStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserStore(db *gorm.DB, logger *zap.Logger) UserStore {
	return &userStore{db: db, logger: logger}
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}
