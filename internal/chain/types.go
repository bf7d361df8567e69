package chain

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle of a submitted transaction as reported by the node.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Operation is a call against one of the two platform contracts, ready to be
// simulated or submitted.
type Operation struct {
	Contract  string        `json:"contract"`
	Function  string        `json:"function"`
	Arguments []interface{} `json:"arguments"`
	// ReadOnly operations are only ever simulated, against a throwaway signer.
	ReadOnly bool `json:"-"`
}

// RegisterTestOp targets the Test Registry contract. Success yields no
// payload; on-chain existence of the record is the effect.
func RegisterTestOp(registry string, testID uint, creator, metadataCID string) Operation {
	return Operation{
		Contract:  registry,
		Function:  "register_test",
		Arguments: []interface{}{fmt.Sprintf("%d", testID), creator, metadataCID},
	}
}

// MintBadgeOp targets the Badge Issuer contract. Success yields a token id
// decoded from the emitted event.
func MintBadgeOp(issuer, receiver, metadataURI string) Operation {
	return Operation{
		Contract:  issuer,
		Function:  "mint_badge",
		Arguments: []interface{}{receiver, metadataURI},
	}
}

func GetTestOp(registry string, testID uint) Operation {
	return Operation{
		Contract:  registry,
		Function:  "get_test",
		Arguments: []interface{}{fmt.Sprintf("%d", testID)},
		ReadOnly:  true,
	}
}

func ListTestsOp(registry string) Operation {
	return Operation{
		Contract:  registry,
		Function:  "list_tests",
		Arguments: []interface{}{},
		ReadOnly:  true,
	}
}

func GetTokenURIOp(issuer, tokenID string) Operation {
	return Operation{
		Contract:  issuer,
		Function:  "token_uri",
		Arguments: []interface{}{tokenID},
		ReadOnly:  true,
	}
}

// Receipt is the transient result of a submitted transaction. Only derived
// fields (TxHash, TokenID) are ever persisted by callers.
type Receipt struct {
	Success bool            `json:"success"`
	TxHash  string          `json:"tx_hash"`
	Status  Status          `json:"status"`
	TokenID string          `json:"token_id,omitempty"`
	GasUsed uint64          `json:"gas_used,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// SimulationResult is the outcome of a dry run. It never reflects a state
// mutation.
type SimulationResult struct {
	OK          bool            `json:"ok"`
	GasEstimate uint64          `json:"gas_estimate"`
	Reason      string          `json:"reason,omitempty"`
	Preview     json.RawMessage `json:"preview,omitempty"`
}

// DecodedResult is a tagged decode of a contract return value, so callers
// handle the fallback path explicitly instead of poking at raw JSON.
type DecodedResult struct {
	OK    bool
	Value string
	Raw   json.RawMessage
}
