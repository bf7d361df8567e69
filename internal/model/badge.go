package model

import (
	"time"

	"gorm.io/gorm"
)

// Badge links a candidate wallet, a test, and an optional minted NFT reference.
// A row with nil TokenID is the retriable "minting failed / pending" state the
// UI keys its retry affordance on. The composite unique index is what collapses
// concurrent issuance attempts for the same (test, owner) pair.
type Badge struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	TestID      uint    `json:"test_id" gorm:"not null;uniqueIndex:idx_badges_test_owner"`
	OwnerWallet string  `json:"owner_wallet" gorm:"not null;uniqueIndex:idx_badges_test_owner"`
	TokenID     *string `json:"nft_token_id,omitempty"`
	MintTxHash  *string `json:"mint_tx_hash,omitempty"`
	MetadataURL *string `json:"metadata_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Minted reports whether the badge has a settled on-chain token.
func (b *Badge) Minted() bool {
	return b.TokenID != nil && b.MintTxHash != nil
}
