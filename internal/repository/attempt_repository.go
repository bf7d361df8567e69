package repository

import (
	"github.com/vuhoang/skillmint/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindAllByTestAndWallet(testID uint, wallet string) ([]model.Attempt, error)
	FindAllByWallet(wallet string) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.First(&attempt, id).Error
	return &attempt, err
}

func (r *attemptRepository) FindAllByTestAndWallet(testID uint, wallet string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("test_id = ? AND wallet = ?", testID, wallet).
		Order("completed_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindAllByWallet(wallet string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("wallet = ?", wallet).
		Preload("Test").
		Order("completed_at DESC").Find(&attempts).Error
	return attempts, err
}
