package chain

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/config"
)

const (
	pollMaxAttempts = 30
	pollInterval    = time.Second

	// Reserved markers for identifiers produced without touching the network.
	// Consumers and tests use these to tell a simulated result from a real one.
	SimTxHashPrefix = "0xsim"
	SimTokenPrefix  = "sim-"

	// Prefix for locally synthesized token ids when a real mint succeeded but
	// the return value could not be decoded. The chain remains authoritative;
	// these rows can be reconciled later.
	PlaceholderTokenPrefix = "badge-"
)

// Client is the ledger protocol used by the workflows: dry-run, submit,
// poll-to-finality, plus high-level helpers for the two platform contracts.
type Client interface {
	Simulate(ctx context.Context, op Operation) (*SimulationResult, error)
	Submit(ctx context.Context, op Operation) (*Receipt, error)
	PollUntilFinal(ctx context.Context, txHash string) (*Receipt, error)

	// RegisterTest runs simulate -> submit -> poll against the Test Registry.
	RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*Receipt, error)
	// MintBadge runs simulate -> submit -> poll against the Badge Issuer and
	// decodes the minted token id, falling back to a placeholder on decode
	// failure.
	MintBadge(ctx context.Context, receiver, metadataURI string) (*Receipt, error)

	GetTest(ctx context.Context, testID uint) (*DecodedResult, error)
	ListTests(ctx context.Context) (*DecodedResult, error)
	GetTokenURI(ctx context.Context, tokenID string) (*DecodedResult, error)

	// Simulated reports whether the client runs without a signer and produces
	// synthetic identifiers.
	Simulated() bool
}

type client struct {
	cfg  config.Chain
	http *http.Client

	// finals pins the first terminal receipt seen per tx hash so a second poll
	// on the same hash can never report a different terminal status.
	mu     sync.Mutex
	finals map[string]*Receipt
}

func NewClient(cfg *config.Config) Client {
	if cfg.Chain.SignerKey == "" {
		log.Warn().Str("network", cfg.Chain.Network).Msg("CHAIN_SIGNER_KEY is not set. Ledger client runs in simulation mode; no transaction will reach the network.")
	}
	return &client{
		cfg:    cfg.Chain,
		http:   &http.Client{Timeout: 10 * time.Second},
		finals: make(map[string]*Receipt),
	}
}

func (c *client) Simulated() bool {
	return c.cfg.SignerKey == ""
}

// --- protocol primitives ---

func (c *client) Simulate(ctx context.Context, op Operation) (*SimulationResult, error) {
	if c.Simulated() {
		preview, _ := json.Marshal(map[string]interface{}{
			"simulated": true,
			"function":  op.Function,
			"arguments": op.Arguments,
		})
		return &SimulationResult{OK: true, GasEstimate: 0, Preview: preview}, nil
	}

	sender := c.cfg.SignerAddress
	if op.ReadOnly {
		// Read-only ops are simulated against a throwaway identity so they
		// never require funds and are never submittable.
		sender = randomAddress()
	}

	body := map[string]interface{}{
		"sender":    sender,
		"contract":  op.Contract,
		"function":  op.Function,
		"arguments": op.Arguments,
	}
	var resp struct {
		Success     bool            `json:"success"`
		GasEstimate uint64          `json:"gas_estimate"`
		VMStatus    string          `json:"vm_status"`
		Output      json.RawMessage `json:"output"`
	}
	if err := c.post(ctx, "/v1/transactions/simulate", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return &SimulationResult{OK: false, Reason: resp.VMStatus}, nil
	}
	return &SimulationResult{OK: true, GasEstimate: resp.GasEstimate, Preview: resp.Output}, nil
}

func (c *client) Submit(ctx context.Context, op Operation) (*Receipt, error) {
	if op.ReadOnly {
		return nil, fmt.Errorf("chain: refusing to submit read-only operation %s", op.Function)
	}
	if c.Simulated() {
		return c.simulateSubmit(op), nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"sender":    c.cfg.SignerAddress,
		"contract":  op.Contract,
		"function":  op.Function,
		"arguments": op.Arguments,
	})
	if err != nil {
		return nil, &SubmitError{Cause: err}
	}
	signature, err := c.sign(payload)
	if err != nil {
		return nil, &SubmitError{Cause: err}
	}

	body := map[string]interface{}{
		"payload":   json.RawMessage(payload),
		"signature": signature,
	}
	var resp struct {
		Hash string `json:"hash"`
	}
	if err := c.post(ctx, "/v1/transactions", body, &resp); err != nil {
		return nil, &SubmitError{Cause: err}
	}
	return &Receipt{TxHash: resp.Hash, Status: StatusPending}, nil
}

func (c *client) PollUntilFinal(ctx context.Context, txHash string) (*Receipt, error) {
	if final := c.final(txHash); final != nil {
		return final, nil
	}
	if c.Simulated() {
		// Simulated transactions finalize at submit time; an unknown hash here
		// is a caller bug, not a pending transaction.
		return nil, fmt.Errorf("chain: unknown simulated transaction %s", txHash)
	}

	var receipt *Receipt
	operation := func() error {
		var resp struct {
			Success  bool            `json:"success"`
			Status   string          `json:"status"`
			VMStatus string          `json:"vm_status"`
			GasUsed  uint64          `json:"gas_used"`
			Events   json.RawMessage `json:"events"`
		}
		if err := c.get(ctx, "/v1/transactions/by_hash/"+txHash, &resp); err != nil {
			return err
		}
		switch resp.Status {
		case "success":
			receipt = &Receipt{Success: true, TxHash: txHash, Status: StatusSuccess, GasUsed: resp.GasUsed, Raw: resp.Events}
			return nil
		case "failed":
			receipt = &Receipt{Success: false, TxHash: txHash, Status: StatusFailed, GasUsed: resp.GasUsed, Raw: resp.Events}
			return nil
		default:
			return fmt.Errorf("transaction %s still pending", txHash)
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(pollInterval), pollMaxAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrTimeout
	}
	return c.pinFinal(txHash, receipt), nil
}

// --- contract helpers ---

func (c *client) RegisterTest(ctx context.Context, testID uint, creator, metadataCID string) (*Receipt, error) {
	op := RegisterTestOp(c.cfg.RegistryAddress, testID, creator, metadataCID)
	return c.execute(ctx, op)
}

func (c *client) MintBadge(ctx context.Context, receiver, metadataURI string) (*Receipt, error) {
	op := MintBadgeOp(c.cfg.IssuerAddress, receiver, metadataURI)
	receipt, err := c.execute(ctx, op)
	if err != nil {
		return nil, err
	}
	if receipt.TokenID != "" {
		return receipt, nil
	}

	decoded := decodeTokenID(receipt.Raw)
	if decoded.OK {
		receipt.TokenID = decoded.Value
	} else {
		receipt.TokenID = PlaceholderTokenPrefix + uuid.NewString()
		log.Warn().
			Str("tx_hash", receipt.TxHash).
			Str("placeholder", receipt.TokenID).
			RawJSON("raw", rawOrNull(decoded.Raw)).
			Msg("Mint succeeded but token id could not be decoded; synthesized placeholder. Reconcile against chain state later.")
	}
	return receipt, nil
}

func (c *client) execute(ctx context.Context, op Operation) (*Receipt, error) {
	sim, err := c.Simulate(ctx, op)
	if err != nil {
		return nil, err
	}
	if !sim.OK {
		return nil, &SimulationError{Reason: sim.Reason}
	}
	receipt, err := c.Submit(ctx, op)
	if err != nil {
		return nil, err
	}
	return c.PollUntilFinal(ctx, receipt.TxHash)
}

func (c *client) GetTest(ctx context.Context, testID uint) (*DecodedResult, error) {
	return c.view(ctx, GetTestOp(c.cfg.RegistryAddress, testID))
}

func (c *client) ListTests(ctx context.Context) (*DecodedResult, error) {
	return c.view(ctx, ListTestsOp(c.cfg.RegistryAddress))
}

func (c *client) GetTokenURI(ctx context.Context, tokenID string) (*DecodedResult, error) {
	return c.view(ctx, GetTokenURIOp(c.cfg.IssuerAddress, tokenID))
}

// view runs a read-only operation through simulation and decodes the preview.
func (c *client) view(ctx context.Context, op Operation) (*DecodedResult, error) {
	sim, err := c.Simulate(ctx, op)
	if err != nil {
		return nil, err
	}
	if !sim.OK {
		return &DecodedResult{OK: false, Raw: sim.Preview}, nil
	}
	return &DecodedResult{OK: true, Value: string(sim.Preview), Raw: sim.Preview}, nil
}

// --- simulation mode ---

func (c *client) simulateSubmit(op Operation) *Receipt {
	receipt := &Receipt{
		Success: true,
		TxHash:  SimTxHashPrefix + randomHex(58),
		Status:  StatusPending,
	}
	if op.Function == "mint_badge" {
		receipt.TokenID = SimTokenPrefix + uuid.NewString()
	}

	// Finalize immediately: the pending receipt is returned to the caller, and
	// the terminal one is what any subsequent poll observes.
	final := *receipt
	final.Status = StatusSuccess
	c.pinFinal(receipt.TxHash, &final)

	log.Debug().Str("function", op.Function).Str("tx_hash", receipt.TxHash).Msg("Simulated transaction submit")
	return receipt
}

// --- plumbing ---

func (c *client) final(txHash string) *Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finals[txHash]
}

func (c *client) pinFinal(txHash string, receipt *Receipt) *Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.finals[txHash]; ok {
		return existing
	}
	c.finals[txHash] = receipt
	return receipt
}

func (c *client) sign(payload []byte) (string, error) {
	keyBytes, err := hex.DecodeString(c.cfg.SignerKey)
	if err != nil || len(keyBytes) != ed25519.SeedSize {
		return "", fmt.Errorf("invalid signer key: %w", err)
	}
	key := ed25519.NewKeyFromSeed(keyBytes)
	return hex.EncodeToString(ed25519.Sign(key, payload)), nil
}

func (c *client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.NodeURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.NodeURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("node returned status %d: %s", resp.StatusCode, string(data))
	}
	return json.Unmarshal(data, out)
}

// decodeTokenID extracts the minted token id from the transaction's events.
func decodeTokenID(raw json.RawMessage) DecodedResult {
	if len(raw) == 0 {
		return DecodedResult{OK: false, Raw: raw}
	}
	var events []struct {
		Type string `json:"type"`
		Data struct {
			TokenID string `json:"token_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		return DecodedResult{OK: false, Raw: raw}
	}
	for _, ev := range events {
		if ev.Data.TokenID != "" {
			return DecodedResult{OK: true, Value: ev.Data.TokenID, Raw: raw}
		}
	}
	return DecodedResult{OK: false, Raw: raw}
}

func randomHex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms; uuid as last resort
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)[:n]
}

func randomAddress() string {
	return "0x" + randomHex(64)
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
