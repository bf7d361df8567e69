package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/model"
	"github.com/vuhoang/skillmint/internal/repository"
)

type AdminTestService interface {
	CreateTest(req dto.CreateTestRequest) (*dto.TestResponseDTO, error)
}

type adminTestService struct {
	testRepo repository.TestRepository
}

func NewAdminTestService(testRepo repository.TestRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo}
}

func (s *adminTestService) CreateTest(req dto.CreateTestRequest) (*dto.TestResponseDTO, error) {
	if req.EndTime.Before(req.StartTime) {
		return nil, fmt.Errorf("%w: end_time must not be before start_time", ErrInvalidRequest)
	}

	test := model.Test{
		Title:         req.Title,
		Description:   req.Description,
		CreatorWallet: req.CreatorWallet,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		PassScore:     req.PassScore,
	}
	for _, q := range req.Questions {
		if q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("%w: correct_index out of range for question %q", ErrInvalidRequest, q.Prompt)
		}
		points := q.Points
		if points == 0 {
			points = 1
		}
		test.Questions = append(test.Questions, model.Question{
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Points:       points,
			OrderInTest:  q.OrderInTest,
		})
	}

	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateTest: failed to persist test")
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Str("creator", test.CreatorWallet).Msg("Test created")

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, &test); err != nil {
		return nil, fmt.Errorf("error preparing response: %w", err)
	}
	return &resp, nil
}
