package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuhoang/skillmint/internal/chain"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/service"
)

type stubRegistration struct {
	result *dto.RegisterTestResult
	err    error
}

func (s *stubRegistration) RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*dto.RegisterTestResult, error) {
	return s.result, s.err
}

type stubIssuance struct {
	badge *dto.BadgeDTO
	err   error
}

func (s *stubIssuance) IssueBadge(ctx context.Context, req service.IssuanceRequest) (*dto.BadgeDTO, error) {
	return s.badge, s.err
}

func (s *stubIssuance) GetBadge(testID uint, owner string) (*dto.BadgeDTO, error) {
	return s.badge, s.err
}

func (s *stubIssuance) ListBadges(owner string) ([]dto.BadgeDTO, error) {
	return nil, s.err
}

type stubLedger struct{}

func (stubLedger) Simulate(ctx context.Context, op chain.Operation) (*chain.SimulationResult, error) {
	return &chain.SimulationResult{OK: true}, nil
}
func (stubLedger) Submit(ctx context.Context, op chain.Operation) (*chain.Receipt, error) {
	return &chain.Receipt{}, nil
}
func (stubLedger) PollUntilFinal(ctx context.Context, txHash string) (*chain.Receipt, error) {
	return &chain.Receipt{}, nil
}
func (stubLedger) RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*chain.Receipt, error) {
	return &chain.Receipt{}, nil
}
func (stubLedger) MintBadge(ctx context.Context, receiver, metadataURI string) (*chain.Receipt, error) {
	return &chain.Receipt{}, nil
}
func (stubLedger) GetTest(ctx context.Context, testID uint) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true, Value: `{"id":1}`}, nil
}
func (stubLedger) ListTests(ctx context.Context) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true, Value: `[]`}, nil
}
func (stubLedger) GetTokenURI(ctx context.Context, tokenID string) (*chain.DecodedResult, error) {
	return &chain.DecodedResult{OK: true, Value: `"http://meta"`}, nil
}
func (stubLedger) Simulated() bool { return true }

func newRouter(reg service.RegistrationService, iss service.IssuanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewBlockchainController(reg, iss, stubLedger{})
	r := gin.New()
	r.POST("/api/blockchain/register-test", ctrl.RegisterTest)
	r.POST("/api/blockchain/mint-nft", ctrl.MintNFT)
	r.GET("/api/blockchain/test/:test_id", ctrl.GetChainTest)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterTestEndpoint(t *testing.T) {
	reg := &stubRegistration{result: &dto.RegisterTestResult{
		Success: true,
		TxHash:  "0xabc",
		TestMetadata: dto.TestChainMetadata{
			TestID: 1, Creator: "0xcreator", MetadataCID: "QmMeta", CreatedAt: time.Now(),
		},
	}}
	r := newRouter(reg, &stubIssuance{})

	w := doJSON(t, r, http.MethodPost, "/api/blockchain/register-test",
		`{"testId":1,"creator":"0xcreator","metadataCid":"QmMeta"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RegisterTestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "0xabc", resp.Data.TxHash)
	assert.Equal(t, uint(1), resp.Data.TestMetadata.TestID)
}

func TestRegisterTestEndpointMissingFields(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubIssuance{})

	for _, body := range []string{
		`{"creator":"0xcreator","metadataCid":"QmMeta"}`,
		`{"testId":1,"metadataCid":"QmMeta"}`,
		`{"testId":1,"creator":"0xcreator"}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/blockchain/register-test", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestRegisterTestEndpointWorkflowFailure(t *testing.T) {
	reg := &stubRegistration{err: &service.RegistrationError{Cause: errors.New("vm rejected")}}
	r := newRouter(reg, &stubIssuance{})

	w := doJSON(t, r, http.MethodPost, "/api/blockchain/register-test",
		`{"testId":1,"creator":"0xcreator","metadataCid":"QmMeta"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Details, "vm rejected")
}

func TestMintNFTEndpoint(t *testing.T) {
	token, tx, url := "token-1", "0xmint", "http://meta"
	iss := &stubIssuance{badge: &dto.BadgeDTO{TestID: 1, OwnerWallet: "0xalice", TokenID: &token, MintTxHash: &tx, MetadataURL: &url}}
	r := newRouter(&stubRegistration{}, iss)

	w := doJSON(t, r, http.MethodPost, "/api/blockchain/mint-nft",
		`{"receiver":"0xalice","testId":1,"testTitle":"Go Basics","score":9,"totalScore":10}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.MintNFTResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "token-1", resp.Data.TokenID)
	assert.Equal(t, "0xmint", resp.Data.TxHash)
	assert.Equal(t, "http://meta", resp.Data.MetadataURL)
}

func TestMintNFTEndpointMissingFields(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubIssuance{})

	w := doJSON(t, r, http.MethodPost, "/api/blockchain/mint-nft", `{"testId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/blockchain/mint-nft", `{"receiver":"0xalice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMintNFTEndpointPracticeRefused(t *testing.T) {
	iss := &stubIssuance{err: service.ErrPracticeRefused}
	r := newRouter(&stubRegistration{}, iss)

	w := doJSON(t, r, http.MethodPost, "/api/blockchain/mint-nft",
		`{"receiver":"0xalice","testId":1,"practice":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetChainTestEndpoint(t *testing.T) {
	r := newRouter(&stubRegistration{}, &stubIssuance{})

	w := doJSON(t, r, http.MethodGet, "/api/blockchain/test/7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["simulated"])
}
