package model

import (
	"time"

	"gorm.io/gorm"
)

type Attempt struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TestID      uint      `json:"test_id" gorm:"not null;index"`
	Test        Test      `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Wallet      string    `json:"wallet" gorm:"not null;index"`
	Score       float64   `json:"score"`
	TotalScore  float64   `json:"total_score"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	Practice    bool      `json:"practice"` // practice attempts never produce badges
	CompletedAt time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
