package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/service"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
}

func NewAdminTestController(adminTestService service.AdminTestService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService}
}

// CreateTest godoc
// @Summary (Admin) Create a new test
// @Description Creates a test with its submission window, pass score and optional question set.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param request body dto.CreateTestRequest true "Test definition"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	test, err := c.adminTestService.CreateTest(req)
	if err != nil {
		if service.IsInvalidRequest(err) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid test definition", Details: err.Error()})
			return
		}
		log.Error().Err(err).Msg("CreateTest: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create test", Details: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, test)
}
