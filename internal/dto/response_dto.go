package dto

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type UserResponse struct {
	ID            uint      `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Username      *string   `json:"username,omitempty"`
	LastLoginAt   time.Time `json:"last_login_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type WalletAuthResponse struct {
	Success bool          `json:"success"`
	User    *UserResponse `json:"user,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type QuestionResponseDTO struct {
	ID          uint     `json:"id"`
	TestID      uint     `json:"test_id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Points      float64  `json:"points"`
	OrderInTest int      `json:"order_in_test"`
}

type TestSummaryDTO struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	CreatorWallet  string    `json:"creator_wallet"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PassScore      float64   `json:"pass_score"`
	QuestionCount  int       `json:"question_count"`
	Registered     bool      `json:"registered"`
	RegistryTxHash *string   `json:"registry_tx_hash,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type TestResponseDTO struct {
	ID            uint                  `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	CreatorWallet string                `json:"creator_wallet"`
	StartTime     time.Time             `json:"start_time"`
	EndTime       time.Time             `json:"end_time"`
	PassScore     float64               `json:"pass_score"`
	Questions     []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type BadgeDTO struct {
	TestID      uint    `json:"test_id"`
	OwnerWallet string  `json:"owner_wallet"`
	TokenID     *string `json:"nft_token_id,omitempty"`
	MintTxHash  *string `json:"mint_tx_hash,omitempty"`
	MetadataURL *string `json:"metadata_url,omitempty"`
	// Retriable is true while the mint has not settled; the UI keys its
	// "minting failed, retry" affordance on it.
	Retriable bool      `json:"retriable"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptResultDTO is the response to an attempt submission. BadgeStatus
// reflects the issuance outcome without ever failing the attempt itself.
type AttemptResultDTO struct {
	ID          uint      `json:"id"`
	TestID      uint      `json:"test_id"`
	Wallet      string    `json:"wallet"`
	Score       float64   `json:"score"`
	TotalScore  float64   `json:"total_score"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	Practice    bool      `json:"practice"`
	CompletedAt time.Time `json:"completed_at"`

	Badge       *BadgeDTO `json:"badge,omitempty"`
	BadgeStatus string    `json:"badge_status,omitempty"` // "minted", "pending", "failed", "not_eligible", "practice"
}

type AttemptSummaryDTO struct {
	ID          uint      `json:"id"`
	TestID      uint      `json:"test_id"`
	TestTitle   string    `json:"test_title,omitempty"`
	Wallet      string    `json:"wallet"`
	Score       float64   `json:"score"`
	TotalScore  float64   `json:"total_score"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	Practice    bool      `json:"practice"`
	CompletedAt time.Time `json:"completed_at"`
}

// --- blockchain endpoint envelopes ---

type TestChainMetadata struct {
	TestID      uint      `json:"testId"`
	Creator     string    `json:"creator"`
	MetadataCID string    `json:"metadataCid"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RegisterTestResult struct {
	Success      bool              `json:"success"`
	TxHash       string            `json:"txHash"`
	TestMetadata TestChainMetadata `json:"testMetadata"`
}

type RegisterTestResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    RegisterTestResult `json:"data"`
}

type MintNFTResult struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"txHash"`
	TokenID     string `json:"tokenId"`
	MetadataURL string `json:"metadataUrl"`
}

type MintNFTResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    MintNFTResult `json:"data"`
}
