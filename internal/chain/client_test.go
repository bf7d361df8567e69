package chain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vuhoang/skillmint/config"
)

// simConfig has no signer key and an unresolvable node URL: any network I/O
// in simulation mode would fail loudly.
func simConfig() *config.Config {
	return &config.Config{
		Chain: config.Chain{
			NodeURL:         "http://invalid.invalid:1",
			Network:         "testnet",
			RegistryAddress: "0xregistry",
			IssuerAddress:   "0xissuer",
		},
	}
}

func TestSimulationModeNeverTouchesNetwork(t *testing.T) {
	client := NewClient(simConfig())
	require.True(t, client.Simulated())
	ctx := context.Background()

	receipt, err := client.RegisterTest(ctx, 1, "0xcreator", "QmMeta")
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.True(t, strings.HasPrefix(receipt.TxHash, SimTxHashPrefix), "tx hash %q must carry the simulation marker", receipt.TxHash)

	minted, err := client.MintBadge(ctx, "0xalice", "http://meta")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(minted.TxHash, SimTxHashPrefix))
	assert.True(t, strings.HasPrefix(minted.TokenID, SimTokenPrefix), "token id %q must carry the simulation marker", minted.TokenID)
}

func TestSimulationModePollIsStable(t *testing.T) {
	client := NewClient(simConfig())
	ctx := context.Background()

	receipt, err := client.MintBadge(ctx, "0xalice", "http://meta")
	require.NoError(t, err)

	first, err := client.PollUntilFinal(ctx, receipt.TxHash)
	require.NoError(t, err)
	second, err := client.PollUntilFinal(ctx, receipt.TxHash)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, first.Status, second.Status, "a terminal status never changes between polls")
	assert.Equal(t, first.TokenID, second.TokenID)
}

func TestSimulationModeReadOps(t *testing.T) {
	client := NewClient(simConfig())
	ctx := context.Background()

	result, err := client.GetTest(ctx, 42)
	require.NoError(t, err)
	assert.True(t, result.OK)

	listed, err := client.ListTests(ctx)
	require.NoError(t, err)
	assert.True(t, listed.OK)

	uri, err := client.GetTokenURI(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, uri.OK)
}

func TestSubmitRefusesReadOnlyOps(t *testing.T) {
	cfg := simConfig()
	cfg.Chain.SignerKey = strings.Repeat("ab", 32) // valid-looking seed, not simulated
	client := NewClient(cfg)
	require.False(t, client.Simulated())

	_, err := client.Submit(context.Background(), GetTestOp("0xregistry", 1))
	assert.Error(t, err)
}

func TestSimulationModeDistinctHashes(t *testing.T) {
	client := NewClient(simConfig())
	ctx := context.Background()

	a, err := client.RegisterTest(ctx, 1, "0xcreator", "QmA")
	require.NoError(t, err)
	b, err := client.RegisterTest(ctx, 2, "0xcreator", "QmB")
	require.NoError(t, err)
	assert.NotEqual(t, a.TxHash, b.TxHash)
}

func TestDecodeTokenID(t *testing.T) {
	events := json.RawMessage(`[{"type":"0xissuer::badge::BadgeMinted","data":{"token_id":"1337"}}]`)
	decoded := decodeTokenID(events)
	assert.True(t, decoded.OK)
	assert.Equal(t, "1337", decoded.Value)

	for name, raw := range map[string]json.RawMessage{
		"empty":        nil,
		"not json":     json.RawMessage(`what`),
		"no token":     json.RawMessage(`[{"type":"x","data":{}}]`),
		"empty events": json.RawMessage(`[]`),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, decodeTokenID(raw).OK)
		})
	}
}

func TestPollUnknownSimulatedHashFails(t *testing.T) {
	client := NewClient(simConfig())
	_, err := client.PollUntilFinal(context.Background(), "0xsimdeadbeef")
	assert.Error(t, err)
}
