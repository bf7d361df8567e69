package repository

import (
	"github.com/vuhoang/skillmint/internal/model"
	"gorm.io/gorm"
)

type BadgeRepository interface {
	// Create inserts a new badge row. A unique-constraint violation on
	// (test_id, owner_wallet) surfaces as gorm.ErrDuplicatedKey.
	Create(badge *model.Badge) error
	Update(badge *model.Badge) error
	FindByTestAndOwner(testID uint, owner string) (*model.Badge, error)
	FindAllByOwner(owner string) ([]model.Badge, error)
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) Create(badge *model.Badge) error {
	return r.db.Create(badge).Error
}

func (r *badgeRepository) Update(badge *model.Badge) error {
	return r.db.Save(badge).Error
}

func (r *badgeRepository) FindByTestAndOwner(testID uint, owner string) (*model.Badge, error) {
	var badge model.Badge
	err := r.db.Where("test_id = ? AND owner_wallet = ?", testID, owner).First(&badge).Error
	return &badge, err
}

func (r *badgeRepository) FindAllByOwner(owner string) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.Where("owner_wallet = ?", owner).Order("created_at DESC").Find(&badges).Error
	return badges, err
}
