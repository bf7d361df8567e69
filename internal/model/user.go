package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	WalletAddress string         `json:"wallet_address" gorm:"not null;uniqueIndex"`
	Username      *string        `json:"username,omitempty"`
	LastLoginAt   time.Time      `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
