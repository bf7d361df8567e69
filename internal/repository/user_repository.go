package repository

import (
	"time"

	"github.com/vuhoang/skillmint/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByWallet(wallet string) (*model.User, error)
	// FindOrCreate returns the user for the wallet, creating the row on first
	// login and refreshing LastLoginAt either way.
	FindOrCreate(wallet string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByWallet(wallet string) (*model.User, error) {
	var user model.User
	err := r.db.Where("wallet_address = ?", wallet).First(&user).Error
	return &user, err
}

func (r *userRepository) FindOrCreate(wallet string) (*model.User, error) {
	user := model.User{WalletAddress: wallet, LastLoginAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_login_at": time.Now()}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}
	return r.FindByWallet(wallet)
}
