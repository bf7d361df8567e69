package blockchain

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/chain"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/service"
)

type BlockchainController struct {
	registrationService service.RegistrationService
	issuanceService     service.IssuanceService
	ledger              chain.Client
}

func NewBlockchainController(
	rs service.RegistrationService,
	is service.IssuanceService,
	ledger chain.Client,
) *BlockchainController {
	return &BlockchainController{
		registrationService: rs,
		issuanceService:     is,
		ledger:              ledger,
	}
}

// RegisterTest godoc
// @Summary Register a test on the on-chain registry
// @Description Idempotent: a test that already carries a registry reference returns it unchanged.
// @Tags Blockchain
// @Accept json
// @Produce json
// @Param request body dto.RegisterTestRequest true "Registration payload"
// @Success 200 {object} dto.RegisterTestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/blockchain/register-test [post]
func (c *BlockchainController) RegisterTest(ctx *gin.Context) {
	var req dto.RegisterTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if req.TestID == 0 || req.Creator == "" || req.MetadataCID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "testId, creator and metadataCid are required"})
		return
	}

	result, err := c.registrationService.RegisterTest(ctx.Request.Context(), req.TestID, req.Creator, req.MetadataCID)
	if err != nil {
		if service.IsInvalidRequest(err) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid registration request", Details: err.Error()})
			return
		}
		log.Error().Err(err).Uint("testID", req.TestID).Msg("RegisterTest: workflow failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "test registration failed", Details: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.RegisterTestResponse{
		Success: true,
		Message: "Test registered on chain",
		Data:    *result,
	})
}

// MintNFT godoc
// @Summary Mint a badge NFT for a test receiver
// @Description Runs the issuance workflow. Practice requests are refused; an already-minted badge is returned unchanged.
// @Tags Blockchain
// @Accept json
// @Produce json
// @Param request body dto.MintNFTRequest true "Mint payload"
// @Success 200 {object} dto.MintNFTResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/blockchain/mint-nft [post]
func (c *BlockchainController) MintNFT(ctx *gin.Context) {
	var req dto.MintNFTRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if req.Receiver == "" || req.TestID == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "receiver and testId are required"})
		return
	}

	badge, err := c.issuanceService.IssueBadge(ctx.Request.Context(), service.IssuanceRequest{
		TestID:     req.TestID,
		Receiver:   req.Receiver,
		TestTitle:  req.TestTitle,
		Score:      req.Score,
		TotalScore: req.TotalScore,
		Practice:   req.Practice,
	})
	if err != nil {
		switch {
		case service.IsInvalidRequest(err):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid mint request", Details: err.Error()})
		case errors.Is(err, service.ErrPracticeRefused), errors.Is(err, service.ErrNotEligible):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "not eligible for minting", Details: err.Error()})
		default:
			log.Error().Err(err).Uint("testID", req.TestID).Str("receiver", req.Receiver).Msg("MintNFT: workflow failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "badge minting failed", Details: err.Error()})
		}
		return
	}

	result := dto.MintNFTResult{Success: true}
	if badge.TokenID != nil {
		result.TokenID = *badge.TokenID
	}
	if badge.MintTxHash != nil {
		result.TxHash = *badge.MintTxHash
	}
	if badge.MetadataURL != nil {
		result.MetadataURL = *badge.MetadataURL
	}
	ctx.JSON(http.StatusOK, dto.MintNFTResponse{
		Success: true,
		Message: "Badge NFT minted",
		Data:    result,
	})
}

// GetChainTest godoc
// @Summary Read a test's on-chain registry record
// @Tags Blockchain
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/blockchain/test/{test_id} [get]
func (c *BlockchainController) GetChainTest(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}
	result, err := c.ledger.GetTest(ctx.Request.Context(), testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("GetChainTest: ledger read failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "chain read failed", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": result.OK, "data": result.Value, "simulated": c.ledger.Simulated()})
}

// ListChainTests godoc
// @Summary List registered tests from the on-chain registry
// @Tags Blockchain
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/blockchain/tests [get]
func (c *BlockchainController) ListChainTests(ctx *gin.Context) {
	result, err := c.ledger.ListTests(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("ListChainTests: ledger read failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "chain read failed", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": result.OK, "data": result.Value, "simulated": c.ledger.Simulated()})
}

// GetTokenURI godoc
// @Summary Read a minted token's metadata URI
// @Tags Blockchain
// @Produce json
// @Param token_id path string true "Token ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/blockchain/token/{token_id}/uri [get]
func (c *BlockchainController) GetTokenURI(ctx *gin.Context) {
	tokenID := ctx.Param("token_id")
	result, err := c.ledger.GetTokenURI(ctx.Request.Context(), tokenID)
	if err != nil {
		log.Error().Err(err).Str("tokenID", tokenID).Msg("GetTokenURI: ledger read failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "chain read failed", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": result.OK, "data": result.Value, "simulated": c.ledger.Simulated()})
}

func parseTestID(ctx *gin.Context) (uint, bool) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid test ID format"})
		return 0, false
	}
	return uint(testID), true
}
