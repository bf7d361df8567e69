package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/model"
	"github.com/vuhoang/skillmint/internal/repository"
)

// AttemptService grades a submission, stores the attempt durably, and then
// hands eligible results to the issuance workflow. Badge issuance failure
// never erases the fact that the test was passed.
type AttemptService interface {
	SubmitAttempt(ctx context.Context, testID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error)
	GetAttemptsForTest(testID uint, wallet string) ([]dto.AttemptSummaryDTO, error)
	GetAttemptsForWallet(wallet string) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	testRepo    repository.TestRepository
	attemptRepo repository.AttemptRepository
	issuance    IssuanceService
}

func NewAttemptService(
	testRepo repository.TestRepository,
	attemptRepo repository.AttemptRepository,
	issuance IssuanceService,
) AttemptService {
	return &attemptService{
		testRepo:    testRepo,
		attemptRepo: attemptRepo,
		issuance:    issuance,
	}
}

func (s *attemptService) SubmitAttempt(ctx context.Context, testID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}
	if len(test.Questions) == 0 {
		return nil, fmt.Errorf("%w: test %d has no questions", ErrInvalidRequest, testID)
	}

	now := time.Now()
	if !test.ActiveAt(now) {
		return nil, fmt.Errorf("%w: test %d is outside its submission window", ErrNotEligible, testID)
	}

	score, total := grade(test.Questions, req.Answers)
	percentage := 0.0
	if total > 0 {
		percentage = score / total * 100
	}

	attempt := model.Attempt{
		TestID:      testID,
		Wallet:      req.Wallet,
		Score:       score,
		TotalScore:  total,
		Percentage:  percentage,
		Passed:      percentage >= test.PassScore,
		Practice:    req.Practice,
		CompletedAt: now,
	}
	// The attempt is durable before issuance is attempted.
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("testID", testID).Str("wallet", req.Wallet).Msg("SubmitAttempt: failed to persist attempt")
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}
	if err := s.testRepo.IncrementAttemptCount(testID); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("SubmitAttempt: failed to bump attempt counter")
	}

	result := &dto.AttemptResultDTO{}
	if err := copier.Copy(result, &attempt); err != nil {
		return nil, fmt.Errorf("error preparing response: %w", err)
	}

	switch {
	case req.Practice:
		result.BadgeStatus = "practice"
	case !attempt.Passed:
		result.BadgeStatus = "not_eligible"
	default:
		result.Badge, result.BadgeStatus = s.tryIssue(ctx, test, &attempt)
	}
	return result, nil
}

// tryIssue invokes the issuance workflow and folds its outcome into the
// attempt response without ever failing the attempt.
func (s *attemptService) tryIssue(ctx context.Context, test *model.Test, attempt *model.Attempt) (*dto.BadgeDTO, string) {
	badge, err := s.issuance.IssueBadge(ctx, IssuanceRequest{
		TestID:     test.ID,
		Receiver:   attempt.Wallet,
		TestTitle:  test.Title,
		Score:      &attempt.Score,
		TotalScore: &attempt.TotalScore,
	})
	if err == nil {
		return badge, "minted"
	}

	var issuanceErr *IssuanceError
	if errors.As(err, &issuanceErr) {
		log.Warn().Err(err).Uint("testID", test.ID).Str("wallet", attempt.Wallet).Msg("SubmitAttempt: badge issuance failed; attempt result stands, mint is retriable")
		if existing, getErr := s.issuance.GetBadge(test.ID, attempt.Wallet); getErr == nil {
			return existing, "failed"
		}
		return nil, "failed"
	}
	log.Warn().Err(err).Uint("testID", test.ID).Str("wallet", attempt.Wallet).Msg("SubmitAttempt: badge not issued")
	return nil, "not_eligible"
}

func (s *attemptService) GetAttemptsForTest(testID uint, wallet string) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByTestAndWallet(testID, wallet)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts for test %d: %w", testID, err)
	}
	return summarize(attempts), nil
}

func (s *attemptService) GetAttemptsForWallet(wallet string) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempts for wallet %s: %w", wallet, err)
	}
	return summarize(attempts), nil
}

// grade scores selected options against the question set. Answers referencing
// unknown questions are skipped; unanswered questions score zero but still
// count toward the total.
func grade(questions []model.Question, answers []dto.AnswerSubmitDTO) (score, total float64) {
	selected := make(map[uint]int, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedIndex
	}
	for _, q := range questions {
		total += q.Points
		if idx, ok := selected[q.ID]; ok && idx == q.CorrectIndex {
			score += q.Points
		}
	}
	return score, total
}

func summarize(attempts []model.Attempt) []dto.AttemptSummaryDTO {
	dtos := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for i := range attempts {
		var summary dto.AttemptSummaryDTO
		if err := copier.Copy(&summary, &attempts[i]); err != nil {
			log.Error().Err(err).Uint("attemptID", attempts[i].ID).Msg("Error copying attempt to summary DTO")
			continue
		}
		if attempts[i].Test.ID != 0 {
			summary.TestTitle = attempts[i].Test.Title
		}
		dtos = append(dtos, summary)
	}
	return dtos
}
