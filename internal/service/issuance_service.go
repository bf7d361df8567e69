package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/chain"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/model"
	"github.com/vuhoang/skillmint/internal/repository"
	"github.com/vuhoang/skillmint/internal/storage"
	"gorm.io/gorm"
)

const metadataKeyPrefix = "badge-metadata"

// IssuanceRequest carries everything the issuance workflow needs. Practice
// requests are always refused.
type IssuanceRequest struct {
	TestID     uint
	Receiver   string
	TestTitle  string
	Score      *float64
	TotalScore *float64
	Practice   bool
}

// IssuanceService runs the badge issuance workflow: eligibility, metadata
// generation, upload, mint, persist. Failures leave a retriable badge row with
// a null token id; retry is a fresh invocation relying on the idempotency
// check, never an internal loop.
type IssuanceService interface {
	IssueBadge(ctx context.Context, req IssuanceRequest) (*dto.BadgeDTO, error)
	GetBadge(testID uint, owner string) (*dto.BadgeDTO, error)
	ListBadges(owner string) ([]dto.BadgeDTO, error)
}

type issuanceService struct {
	testRepo  repository.TestRepository
	badgeRepo repository.BadgeRepository
	metadata  MetadataService
	store     storage.ObjectStore
	ledger    chain.Client
}

func NewIssuanceService(
	testRepo repository.TestRepository,
	badgeRepo repository.BadgeRepository,
	metadata MetadataService,
	store storage.ObjectStore,
	ledger chain.Client,
) IssuanceService {
	return &issuanceService{
		testRepo:  testRepo,
		badgeRepo: badgeRepo,
		metadata:  metadata,
		store:     store,
		ledger:    ledger,
	}
}

func (s *issuanceService) IssueBadge(ctx context.Context, req IssuanceRequest) (*dto.BadgeDTO, error) {
	if req.Receiver == "" || req.TestID == 0 {
		return nil, fmt.Errorf("%w: receiver and testId are required", ErrInvalidRequest)
	}
	if req.Practice {
		return nil, ErrPracticeRefused
	}

	test, err := s.testRepo.FindByID(req.TestID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", req.TestID, err)
	}
	// Eligibility is re-validated at issuance time, not just at attempt time:
	// a stale eligible attempt cannot mint after the window closes.
	if !test.ActiveAt(time.Now()) {
		return nil, fmt.Errorf("%w: test %d is outside its active window", ErrNotEligible, req.TestID)
	}
	if req.TestTitle == "" {
		req.TestTitle = test.Title
	}

	badge, err := s.claimBadgeRow(req.TestID, req.Receiver)
	if err != nil {
		return nil, err
	}
	if badge.Minted() {
		// Duplicate invocation (client retry or the retry-mint action racing a
		// completed mint): return the settled badge unchanged.
		log.Info().Uint("testID", req.TestID).Str("owner", req.Receiver).Str("token_id", *badge.TokenID).Msg("IssueBadge: badge already minted, returning existing")
		return badgeDTO(badge), nil
	}

	doc := s.metadata.Generate(MetadataRequest{
		TestID:      req.TestID,
		OwnerWallet: req.Receiver,
		TestTitle:   req.TestTitle,
		Score:       req.Score,
		TotalScore:  req.TotalScore,
	})
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, &IssuanceError{Kind: KindStorage, Cause: err}
	}

	// overwrite=true so retries converge on the same object instead of
	// accumulating orphaned blobs.
	key := metadataKey(req.TestID, req.Receiver)
	metadataURL, err := s.store.Upload(ctx, key, encoded, "application/json", true)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("IssueBadge: metadata upload failed; badge row stays retriable")
		return nil, &IssuanceError{Kind: KindStorage, Cause: err}
	}

	badge.MetadataURL = &metadataURL
	if err := s.badgeRepo.Update(badge); err != nil {
		return nil, &IssuanceError{Kind: KindStorage, Cause: fmt.Errorf("failed to persist metadata url: %w", err)}
	}

	receipt, err := s.ledger.MintBadge(ctx, req.Receiver, metadataURL)
	if err != nil {
		// Token id stays null; the UI renders the retry affordance off that.
		log.Error().Err(err).Uint("testID", req.TestID).Str("owner", req.Receiver).Msg("IssueBadge: mint failed; badge row stays retriable")
		return nil, &IssuanceError{Kind: mintFailureKind(err), Cause: err}
	}
	if !receipt.Success {
		cause := fmt.Errorf("mint transaction %s settled with status %s", receipt.TxHash, receipt.Status)
		return nil, &IssuanceError{Kind: KindChain, Cause: cause}
	}

	badge.TokenID = &receipt.TokenID
	badge.MintTxHash = &receipt.TxHash
	if err := s.badgeRepo.Update(badge); err != nil {
		// The mint settled; only the local reference write failed. Surface as
		// retriable: the next invocation re-reads and, still seeing a null
		// token, re-runs against the idempotent upload and the settled chain
		// state.
		log.Error().Err(err).Str("token_id", receipt.TokenID).Msg("IssueBadge: mint settled but persisting badge failed")
		return nil, &IssuanceError{Kind: KindStorage, Cause: fmt.Errorf("failed to persist minted badge: %w", err)}
	}

	log.Info().
		Uint("testID", req.TestID).
		Str("owner", req.Receiver).
		Str("token_id", receipt.TokenID).
		Str("tx_hash", receipt.TxHash).
		Bool("simulated", s.ledger.Simulated()).
		Msg("Badge minted")
	return badgeDTO(badge), nil
}

// claimBadgeRow finds or creates the badge row for (testID, owner). A
// uniqueness violation on insert means a concurrent invocation already claimed
// the pair; that is resolved by re-reading, never surfaced as an error.
func (s *issuanceService) claimBadgeRow(testID uint, owner string) (*model.Badge, error) {
	badge, err := s.badgeRepo.FindByTestAndOwner(testID, owner)
	if err == nil {
		return badge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up badge: %w", err)
	}

	fresh := &model.Badge{TestID: testID, OwnerWallet: owner}
	if err := s.badgeRepo.Create(fresh); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.badgeRepo.FindByTestAndOwner(testID, owner)
		}
		return nil, fmt.Errorf("failed to create badge row: %w", err)
	}
	return fresh, nil
}

func (s *issuanceService) GetBadge(testID uint, owner string) (*dto.BadgeDTO, error) {
	badge, err := s.badgeRepo.FindByTestAndOwner(testID, owner)
	if err != nil {
		return nil, fmt.Errorf("badge not found for test %d and wallet %s: %w", testID, owner, err)
	}
	return badgeDTO(badge), nil
}

func (s *issuanceService) ListBadges(owner string) ([]dto.BadgeDTO, error) {
	badges, err := s.badgeRepo.FindAllByOwner(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for wallet %s: %w", owner, err)
	}
	dtos := make([]dto.BadgeDTO, 0, len(badges))
	for i := range badges {
		dtos = append(dtos, *badgeDTO(&badges[i]))
	}
	return dtos, nil
}

func metadataKey(testID uint, wallet string) string {
	return fmt.Sprintf("%s/%d_%s.json", metadataKeyPrefix, testID, wallet)
}

func mintFailureKind(err error) FailureKind {
	if errors.Is(err, chain.ErrTimeout) {
		return KindTimeout
	}
	return KindChain
}

func badgeDTO(b *model.Badge) *dto.BadgeDTO {
	return &dto.BadgeDTO{
		TestID:      b.TestID,
		OwnerWallet: b.OwnerWallet,
		TokenID:     b.TokenID,
		MintTxHash:  b.MintTxHash,
		MetadataURL: b.MetadataURL,
		Retriable:   b.TokenID == nil,
		CreatedAt:   b.CreatedAt,
	}
}
