package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/chain"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/repository"
)

// RegistrationService records a test on the on-chain registry exactly once.
// A second invocation for an already-registered test returns the stored
// reference without touching the ledger.
type RegistrationService interface {
	RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*dto.RegisterTestResult, error)
}

type registrationService struct {
	testRepo repository.TestRepository
	ledger   chain.Client
}

func NewRegistrationService(testRepo repository.TestRepository, ledger chain.Client) RegistrationService {
	return &registrationService{testRepo: testRepo, ledger: ledger}
}

func (s *registrationService) RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*dto.RegisterTestResult, error) {
	if testID == 0 || creator == "" || metadataCID == "" {
		return nil, fmt.Errorf("%w: testId, creator and metadataCid are required", ErrInvalidRequest)
	}

	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}

	// Idempotent no-op: the registry reference is written once and is
	// immutable afterwards.
	if test.Registered() {
		log.Info().Uint("testID", testID).Str("tx_hash", *test.RegistryTxHash).Msg("RegisterTest: already registered, returning existing reference")
		return s.result(testID, creator, test.RegistryTxHash, test.MetadataCID, test.RegisteredAt), nil
	}

	receipt, err := s.ledger.RegisterTest(ctx, testID, creator, metadataCID)
	if err != nil {
		// Record store stays untouched; nothing partial to clean up.
		log.Error().Err(err).Uint("testID", testID).Msg("RegisterTest: ledger call failed")
		return nil, &RegistrationError{Cause: err}
	}
	if !receipt.Success {
		return nil, &RegistrationError{Cause: fmt.Errorf("transaction %s settled with status %s", receipt.TxHash, receipt.Status)}
	}

	registeredAt := time.Now()
	if err := s.testRepo.SetRegistered(testID, receipt.TxHash, metadataCID, registeredAt); err != nil {
		// The ledger record exists but the local reference write failed. The
		// caller retries; the next invocation re-reads chain-registered state
		// from the store or re-runs SetRegistered, which is conditional on the
		// reference still being null.
		log.Error().Err(err).Uint("testID", testID).Str("tx_hash", receipt.TxHash).Msg("RegisterTest: ledger succeeded but persisting reference failed")
		return nil, &RegistrationError{Cause: fmt.Errorf("failed to persist registry reference: %w", err)}
	}

	log.Info().Uint("testID", testID).Str("tx_hash", receipt.TxHash).Bool("simulated", s.ledger.Simulated()).Msg("Test registered on chain")
	return s.result(testID, creator, &receipt.TxHash, &metadataCID, &registeredAt), nil
}

func (s *registrationService) result(testID uint, creator string, txHash, metadataCID *string, at *time.Time) *dto.RegisterTestResult {
	res := &dto.RegisterTestResult{
		Success: true,
		TestMetadata: dto.TestChainMetadata{
			TestID:  testID,
			Creator: creator,
		},
	}
	if txHash != nil {
		res.TxHash = *txHash
	}
	if metadataCID != nil {
		res.TestMetadata.MetadataCID = *metadataCID
	}
	if at != nil {
		res.TestMetadata.CreatedAt = *at
	}
	return res
}

// IsInvalidRequest reports whether err is a caller-side validation failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
