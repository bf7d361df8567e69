package dto

import "time"

// WalletAuthRequest is the wallet sign-in payload. Signature verification
// happens at the gateway; here a well-formed triple is trusted.
type WalletAuthRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	Message       string `json:"message" binding:"required"`
}

// QuestionForTestRequest is used when creating questions as part of a new test.
type QuestionForTestRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2"`
	CorrectIndex int      `json:"correct_index" binding:"min=0"`
	Points       float64  `json:"points"`
	OrderInTest  int      `json:"order_in_test" binding:"required,min=1"`
}

type CreateTestRequest struct {
	Title         string                   `json:"title" binding:"required"`
	Description   string                   `json:"description"`
	CreatorWallet string                   `json:"creator_wallet" binding:"required"`
	StartTime     time.Time                `json:"start_time" binding:"required"`
	EndTime       time.Time                `json:"end_time" binding:"required"`
	PassScore     float64                  `json:"pass_score" binding:"min=0,max=100"`
	Questions     []QuestionForTestRequest `json:"questions" binding:"omitempty,dive"`
}

// AnswerSubmitDTO is one selected option for one question.
type AnswerSubmitDTO struct {
	QuestionID    uint `json:"question_id" binding:"required"`
	SelectedIndex int  `json:"selected_index" binding:"min=0"`
}

// AttemptSubmitDTO is the full submission of a test attempt. Practice
// attempts are graded and stored but never produce badges.
type AttemptSubmitDTO struct {
	Wallet   string            `json:"wallet" binding:"required"`
	Practice bool              `json:"practice"`
	Answers  []AnswerSubmitDTO `json:"answers" binding:"required,dive"`
}

type RegisterTestRequest struct {
	TestID      uint   `json:"testId"`
	Creator     string `json:"creator"`
	MetadataCID string `json:"metadataCid"`
}

type MintNFTRequest struct {
	Receiver   string   `json:"receiver"`
	TestID     uint     `json:"testId"`
	TestTitle  string   `json:"testTitle"`
	Score      *float64 `json:"score"`
	TotalScore *float64 `json:"totalScore"`
	Practice   bool     `json:"practice"`
}

type RetryMintRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}
