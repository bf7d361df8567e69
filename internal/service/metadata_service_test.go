package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attr(t *testing.T, doc *BadgeMetadata, traitType string) string {
	t.Helper()
	for _, a := range doc.Attributes {
		if a.TraitType == traitType {
			return a.Value
		}
	}
	t.Fatalf("attribute %q not found", traitType)
	return ""
}

func TestGeneratePercentageFormatting(t *testing.T) {
	svc := NewMetadataService()
	score, total := 8.0, 10.0

	doc := svc.Generate(MetadataRequest{TestID: 7, OwnerWallet: "0xwallet", TestTitle: "Go Basics", Score: &score, TotalScore: &total})
	assert.Equal(t, "80.00%", attr(t, doc, "Percentage"))
	assert.Equal(t, "8/10", attr(t, doc, "Score"))
}

func TestGeneratePercentageZeroTotal(t *testing.T) {
	svc := NewMetadataService()
	score, total := 3.0, 0.0

	doc := svc.Generate(MetadataRequest{TestID: 7, OwnerWallet: "0xwallet", Score: &score, TotalScore: &total})
	assert.Equal(t, "N/A", attr(t, doc, "Percentage"))
}

func TestGenerateScoreAbsent(t *testing.T) {
	svc := NewMetadataService()

	doc := svc.Generate(MetadataRequest{TestID: 7, OwnerWallet: "0xwallet"})
	assert.Equal(t, "Passed", attr(t, doc, "Score"))
	assert.Equal(t, "N/A", attr(t, doc, "Percentage"))
}

func TestGenerateDocumentShape(t *testing.T) {
	svc := NewMetadataService()

	doc := svc.Generate(MetadataRequest{TestID: 42, OwnerWallet: "0xwallet", TestTitle: "Rust 101"})
	assert.Equal(t, "SkillMint Badge - Rust 101", doc.Name)
	assert.NotEmpty(t, doc.Image)
	assert.Equal(t, "42", attr(t, doc, "Test ID"))
	assert.Equal(t, "0xwallet", attr(t, doc, "Wallet"))

	issued, err := time.Parse(time.RFC3339, attr(t, doc, "Issued At"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), issued, time.Minute)
}

func TestGenerateFallsBackToTestIDTitle(t *testing.T) {
	svc := NewMetadataService()

	doc := svc.Generate(MetadataRequest{TestID: 9, OwnerWallet: "0xwallet"})
	assert.Equal(t, "Test #9", attr(t, doc, "Test Title"))
}
