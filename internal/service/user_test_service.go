package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/repository"
)

type UserTestService interface {
	GetAllTests() ([]dto.TestSummaryDTO, error)
	GetTestDetails(testID uint) (*dto.TestResponseDTO, error)
}

type userTestService struct {
	testRepo repository.TestRepository
}

func NewUserTestService(testRepo repository.TestRepository) UserTestService {
	return &userTestService{testRepo: testRepo}
}

func (s *userTestService) GetAllTests() ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	summaries := make([]dto.TestSummaryDTO, 0, len(tests))
	for i := range tests {
		var summary dto.TestSummaryDTO
		if err := copier.Copy(&summary, &tests[i].Test); err != nil {
			log.Error().Err(err).Uint("testID", tests[i].ID).Msg("Error copying test to summary DTO")
			continue
		}
		summary.QuestionCount = tests[i].QuestionCount
		summary.Registered = tests[i].Registered()
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *userTestService) GetTestDetails(testID uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, test); err != nil {
		return nil, fmt.Errorf("error preparing response: %w", err)
	}
	// copier maps Questions field-by-field; CorrectIndex has no DTO
	// counterpart so it never leaves the server.
	return &resp, nil
}
