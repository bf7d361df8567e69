package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// WalletLogin godoc
// @Summary Authenticate with a wallet signature
// @Description Verifies the wallet sign-in payload and returns the user record, creating it on first login.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.WalletAuthRequest true "Wallet auth payload"
// @Success 200 {object} dto.WalletAuthResponse
// @Failure 400 {object} dto.WalletAuthResponse
// @Router /api/auth/wallet [post]
func (c *AuthController) WalletLogin(ctx *gin.Context) {
	var req dto.WalletAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.WalletAuthResponse{Success: false, Error: err.Error()})
		return
	}

	user, err := c.authService.Authenticate(req)
	if err != nil {
		status := http.StatusInternalServerError
		if service.IsInvalidRequest(err) {
			status = http.StatusBadRequest
		}
		log.Warn().Err(err).Str("wallet", req.WalletAddress).Msg("WalletLogin failed")
		ctx.JSON(status, dto.WalletAuthResponse{Success: false, Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.WalletAuthResponse{Success: true, User: user})
}

// GetUser godoc
// @Summary Get a user by wallet address
// @Tags Auth
// @Produce json
// @Param walletAddress path string true "Wallet address"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/user/{walletAddress} [get]
func (c *AuthController) GetUser(ctx *gin.Context) {
	wallet := ctx.Param("walletAddress")
	user, err := c.authService.GetUser(wallet)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, user)
}
