package service

import (
	"fmt"
	"time"
)

// MetadataAttribute is one trait in the NFT metadata attributes array. Field
// names are part of the on-chain metadata contract and must stay byte-stable.
type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type BadgeMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

type MetadataRequest struct {
	TestID      uint
	OwnerWallet string
	TestTitle   string
	Score       *float64
	TotalScore  *float64
}

// MetadataService builds the canonical achievement document minted as NFT
// metadata. Pure except for the issuance timestamp; never fails.
type MetadataService interface {
	Generate(req MetadataRequest) *BadgeMetadata
}

type metadataService struct {
	badgeImageURL string
}

func NewMetadataService() MetadataService {
	return &metadataService{
		badgeImageURL: "https://skillmint.app/assets/badge.svg",
	}
}

func (s *metadataService) Generate(req MetadataRequest) *BadgeMetadata {
	title := req.TestTitle
	if title == "" {
		title = fmt.Sprintf("Test #%d", req.TestID)
	}

	return &BadgeMetadata{
		Name:        fmt.Sprintf("SkillMint Badge - %s", title),
		Description: fmt.Sprintf("Achievement badge for passing %s", title),
		Image:       s.badgeImageURL,
		Attributes: []MetadataAttribute{
			{TraitType: "Test ID", Value: fmt.Sprintf("%d", req.TestID)},
			{TraitType: "Test Title", Value: title},
			{TraitType: "Wallet", Value: req.OwnerWallet},
			{TraitType: "Score", Value: formatScore(req.Score, req.TotalScore)},
			{TraitType: "Percentage", Value: formatPercentage(req.Score, req.TotalScore)},
			{TraitType: "Issued At", Value: time.Now().UTC().Format(time.RFC3339)},
		},
	}
}

// formatScore renders "score/total", or "Passed" when no score was supplied.
func formatScore(score, total *float64) string {
	if score == nil {
		return "Passed"
	}
	if total == nil {
		return trimFloat(*score)
	}
	return fmt.Sprintf("%s/%s", trimFloat(*score), trimFloat(*total))
}

// formatPercentage renders score/total*100 to two decimals, or "N/A" when the
// total is absent or zero.
func formatPercentage(score, total *float64) string {
	if score == nil || total == nil || *total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *score / *total*100)
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
