package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/service"
)

type UserTestController struct {
	userTestService service.UserTestService
	attemptService  service.AttemptService
	issuanceService service.IssuanceService
}

func NewUserTestController(
	uts service.UserTestService,
	as service.AttemptService,
	is service.IssuanceService,
) *UserTestController {
	return &UserTestController{
		userTestService: uts,
		attemptService:  as,
		issuanceService: is,
	}
}

// GetAllTests godoc
// @Summary List all tests
// @Tags Tests & Attempts
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests [get]
func (c *UserTestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.userTestService.GetAllTests()
	if err != nil {
		log.Error().Err(err).Msg("GetAllTests: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to retrieve tests", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary Get details of a specific test
// @Tags Tests & Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tests/{test_id} [get]
func (c *UserTestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}
	test, err := c.userTestService.GetTestDetails(testID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "test not found", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// SubmitAttempt godoc
// @Summary Submit answers for a test
// @Description Grades the submission, stores the attempt, and issues a badge for eligible non-practice passes. Badge issuance failure does not fail the attempt.
// @Tags Tests & Attempts
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param request body dto.AttemptSubmitDTO true "Submission"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests/{test_id}/attempts [post]
func (c *UserTestController) SubmitAttempt(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}
	var req dto.AttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result, err := c.attemptService.SubmitAttempt(ctx.Request.Context(), testID, req)
	if err != nil {
		switch {
		case service.IsInvalidRequest(err):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid submission", Details: err.Error()})
		case errors.Is(err, service.ErrNotEligible):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "test is not open for submissions", Details: err.Error()})
		default:
			log.Error().Err(err).Uint("testID", testID).Msg("SubmitAttempt: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to submit attempt", Details: err.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetMyAttempts godoc
// @Summary List a wallet's attempts for a test
// @Tags Tests & Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Param wallet query string true "Wallet address"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tests/{test_id}/my-attempts [get]
func (c *UserTestController) GetMyAttempts(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}
	wallet := ctx.Query("wallet")
	if wallet == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "wallet query parameter is required"})
		return
	}
	attempts, err := c.attemptService.GetAttemptsForTest(testID, wallet)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("GetMyAttempts: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to retrieve attempts", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetWalletBadges godoc
// @Summary List a wallet's badges
// @Tags Badges
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {array} dto.BadgeDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/wallets/{wallet}/badges [get]
func (c *UserTestController) GetWalletBadges(ctx *gin.Context) {
	wallet := ctx.Param("wallet")
	badges, err := c.issuanceService.ListBadges(wallet)
	if err != nil {
		log.Error().Err(err).Str("wallet", wallet).Msg("GetWalletBadges: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to retrieve badges", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, badges)
}

// RetryMint godoc
// @Summary Retry minting a pending badge
// @Description Re-runs the issuance workflow for a badge whose mint has not settled. A badge that already has a token id is returned unchanged.
// @Tags Badges
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param request body dto.RetryMintRequest true "Owner wallet"
// @Success 200 {object} dto.BadgeDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/badges/{test_id}/retry [post]
func (c *UserTestController) RetryMint(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}
	var req dto.RetryMintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	badge, err := c.issuanceService.IssueBadge(ctx.Request.Context(), service.IssuanceRequest{
		TestID:   testID,
		Receiver: req.Wallet,
	})
	if err != nil {
		switch {
		case service.IsInvalidRequest(err):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid retry request", Details: err.Error()})
		case errors.Is(err, service.ErrNotEligible):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "badge is no longer issuable", Details: err.Error()})
		default:
			log.Error().Err(err).Uint("testID", testID).Str("wallet", req.Wallet).Msg("RetryMint: issuance failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "mint retry failed", Details: err.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, badge)
}

func parseTestID(ctx *gin.Context) (uint, bool) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid test ID format"})
		return 0, false
	}
	return uint(testID), true
}
