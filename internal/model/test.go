package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description,omitempty"`
	CreatorWallet string     `json:"creator_wallet" gorm:"not null;index"`
	StartTime     time.Time  `json:"start_time" gorm:"not null"`
	EndTime       time.Time  `json:"end_time" gorm:"not null"` // invariant: EndTime >= StartTime
	PassScore     float64    `json:"pass_score" gorm:"not null"` // percentage threshold, 0-100
	Questions     []Question `json:"questions,omitempty" gorm:"foreignKey:TestID"`

	// On-chain registration reference. Once set, (ID, CreatorWallet, MetadataCID)
	// is immutable.
	RegistryTxHash *string    `json:"registry_tx_hash,omitempty"`
	MetadataCID    *string    `json:"metadata_cid,omitempty"`
	RegisteredAt   *time.Time `json:"registered_at,omitempty"`

	AttemptCount      int `json:"attempt_count" gorm:"default:0"`
	RegistrationCount int `json:"registration_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ActiveAt reports whether the test's submission window covers t.
func (t *Test) ActiveAt(at time.Time) bool {
	return !at.Before(t.StartTime) && !at.After(t.EndTime)
}

// Registered reports whether the test already has an on-chain registry reference.
func (t *Test) Registered() bool {
	return t.RegistryTxHash != nil
}
