package codec

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"

	"zkuno/internal/journal"
	"zkuno/internal/seal"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// TxEnvelope is the ledger transaction container.
//
// Ledger transactions are opaque bytes; the zkuno module reads JSON envelopes
// routed by Type.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Nonce keeps otherwise identical txs distinct in the mempool cache.
	Nonce string `json:"nonce,omitempty"`
}

const (
	TypeCommitHand = types.ModuleName + "/commit_hand"
	TypePlayCard   = types.ModuleName + "/play_card"
	TypeDrawCard   = types.ModuleName + "/draw_card"
	TypeDeclareUno = types.ModuleName + "/declare_uno"
)

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// NewTxEnvelope wraps value under typ with a fresh nonce.
func NewTxEnvelope(typ string, value any) (TxEnvelope, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return TxEnvelope{}, fmt.Errorf("encode %s value: %w", typ, err)
	}
	return TxEnvelope{Type: typ, Value: raw, Nonce: uuid.NewString()}, nil
}

// Encode returns the tx bytes.
func (env TxEnvelope) Encode() ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode tx: %w", err)
	}
	return b, nil
}

// DecodeValue unmarshals the envelope value into v.
func (env TxEnvelope) DecodeValue(v any) error {
	if err := json.Unmarshal(env.Value, v); err != nil {
		return fmt.Errorf("decode %s value: %w", env.Type, err)
	}
	return nil
}

// ---- zkuno ----
//
// Each tx carries the public journal fields the ledger cannot derive itself;
// the ledger rebuilds the journal from its own state and these fields, then
// verifies the seal against sha256(journal).

type CommitHandTx struct {
	SessionID uint32        `json:"sessionId"`
	Player    string        `json:"player"`
	HandHash  zkcrypto.Hash `json:"handHash"`
	Seal      seal.Seal     `json:"seal"`
}

type PlayCardTx struct {
	SessionID    uint32        `json:"sessionId"`
	Player       string        `json:"player"`
	PlayedColour uint8         `json:"playedColour"`
	PlayedValue  uint8         `json:"playedValue"`
	WildColour   uint8         `json:"wildColour"`
	NewHandHash  zkcrypto.Hash `json:"newHandHash"`
	Seal         seal.Seal     `json:"seal"`
	IsWinner     bool          `json:"isWinner"`
	IsUno        bool          `json:"isUno"`
}

type DrawCardTx struct {
	SessionID   uint32        `json:"sessionId"`
	Player      string        `json:"player"`
	NewHandHash zkcrypto.Hash `json:"newHandHash"`
	Seal        seal.Seal     `json:"seal"`
}

type DeclareUnoTx struct {
	SessionID uint32    `json:"sessionId"`
	Player    string    `json:"player"`
	Seal      seal.Seal `json:"seal"`
}

// TxForJournal builds the envelope that submits j, proven by s, for player.
func TxForJournal(player string, j journal.Journal, s seal.Seal) (TxEnvelope, error) {
	switch j := j.(type) {
	case journal.Commit:
		return NewTxEnvelope(TypeCommitHand, CommitHandTx{
			SessionID: j.SessionID,
			Player:    player,
			HandHash:  j.HandHash,
			Seal:      s,
		})
	case journal.Play:
		return NewTxEnvelope(TypePlayCard, PlayCardTx{
			SessionID:    j.SessionID,
			Player:       player,
			PlayedColour: j.PlayedColour,
			PlayedValue:  j.PlayedRank,
			WildColour:   j.WildColour,
			NewHandHash:  j.NewHash,
			Seal:         s,
			IsWinner:     j.IsWinner,
			IsUno:        j.IsUno,
		})
	case journal.Draw:
		return NewTxEnvelope(TypeDrawCard, DrawCardTx{
			SessionID:   j.SessionID,
			Player:      player,
			NewHandHash: j.NewHash,
			Seal:        s,
		})
	case journal.Declare:
		return NewTxEnvelope(TypeDeclareUno, DeclareUnoTx{
			SessionID: j.SessionID,
			Player:    player,
			Seal:      s,
		})
	default:
		return TxEnvelope{}, errorsmod.Wrapf(types.ErrMalformedInput, "no tx type for journal %T", j)
	}
}
