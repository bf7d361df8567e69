package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	TestID       uint           `json:"test_id" gorm:"not null;index"`
	Prompt       string         `json:"prompt" gorm:"type:text;not null"`
	Options      []string       `json:"options" gorm:"serializer:json;not null"`
	CorrectIndex int            `json:"-" gorm:"not null"` // never serialized to clients
	Points       float64        `json:"points" gorm:"default:1"`
	OrderInTest  int            `json:"order_in_test" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
