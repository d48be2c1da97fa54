package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"

	"zkuno/internal/journal"
	"zkuno/internal/seal"
	"zkuno/internal/types"
	"zkuno/internal/zkcrypto"
)

// RequestIDHeader carries a per-call id the prover server echoes in its logs.
const RequestIDHeader = "X-Request-Id"

// maxResponseBytes bounds the prover response body.
const maxResponseBytes = 1 << 20

// Remote calls a prover server over HTTP.
type Remote struct {
	endpoint string
	client   *http.Client
	logger   log.Logger
}

// NewRemote returns a client for the prover server at endpoint. A zero
// timeout leaves requests bounded only by their context.
func NewRemote(endpoint string, timeout time.Duration, logger log.Logger) *Remote {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		logger:   logger.With("module", "prover"),
	}
}

// byteList marshals as a JSON array of numbers, which is how the prover
// server reads private byte inputs.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

type commitBody struct {
	HandBytes byteList `json:"hand_bytes"`
	Salt      byteList `json:"salt"`
	SessionID uint32   `json:"session_id"`
	HandHash  string   `json:"hand_hash"`
}

type moveBody struct {
	OldHand      byteList `json:"old_hand"`
	OldSalt      byteList `json:"old_salt"`
	NewHand      byteList `json:"new_hand"`
	NewSalt      byteList `json:"new_salt"`
	SessionID    uint32   `json:"session_id"`
	PlayedColour uint8    `json:"played_colour"`
	PlayedValue  uint8    `json:"played_value"`
	WildColour   uint8    `json:"wild_colour"`
	ActiveColour uint8    `json:"active_colour"`
}

type drawBody struct {
	OldHand   byteList `json:"old_hand"`
	OldSalt   byteList `json:"old_salt"`
	NewHand   byteList `json:"new_hand"`
	NewSalt   byteList `json:"new_salt"`
	SessionID uint32   `json:"session_id"`
	DrawCount uint32   `json:"draw_count"`
}

type proveResponse struct {
	Seal    string `json:"seal"`
	Journal string `json:"journal"`
	IsMock  bool   `json:"is_mock"`
}

// route returns the server path and JSON body for req.
func route(req Request) (string, any, error) {
	switch req.Kind {
	case journal.KindCommit, journal.KindDeclare:
		path := "/prove/commit"
		if req.Kind == journal.KindDeclare {
			path = "/prove/uno"
		}
		return path, commitBody{
			HandBytes: req.Hand.Encode(),
			Salt:      req.Salt.Bytes(),
			SessionID: req.SessionID,
			HandHash:  req.HandHash.String(),
		}, nil
	case journal.KindPlay:
		return "/prove/move", moveBody{
			OldHand:      req.OldHand.Encode(),
			OldSalt:      req.OldSalt.Bytes(),
			NewHand:      req.NewHand.Encode(),
			NewSalt:      req.NewSalt.Bytes(),
			SessionID:    req.SessionID,
			PlayedColour: uint8(req.Played.Colour),
			PlayedValue:  uint8(req.Played.Rank),
			WildColour:   req.WildColour,
			ActiveColour: req.ActiveColour,
		}, nil
	case journal.KindDraw:
		return "/prove/draw", drawBody{
			OldHand:   req.OldHand.Encode(),
			OldSalt:   req.OldSalt.Bytes(),
			NewHand:   req.NewHand.Encode(),
			NewSalt:   req.NewSalt.Bytes(),
			SessionID: req.SessionID,
			DrawCount: req.DrawCount,
		}, nil
	default:
		return "", nil, errorsmod.Wrapf(types.ErrMalformedInput, "unknown request kind %q", req.Kind)
	}
}

// Prove checks the witness locally, posts it to the server and checks that
// the returned journal is the one the witness implies.
func (r *Remote) Prove(ctx context.Context, req Request) (Proof, error) {
	want, err := req.Journal()
	if err != nil {
		return Proof{}, err
	}
	path, body, err := route(req)
	if err != nil {
		return Proof{}, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Proof{}, fmt.Errorf("encode %s request: %w", req.Kind, err)
	}

	reqID := uuid.NewString()
	start := time.Now()
	var resp proveResponse
	if err := r.do(ctx, http.MethodPost, path, reqID, payload, &resp); err != nil {
		r.logger.Error("prove failed", "kind", req.Kind, "session", req.SessionID, "request_id", reqID, "err", err)
		return Proof{}, err
	}

	sealBytes, err := zkcrypto.HexToBytes(resp.Seal)
	if err != nil {
		return Proof{}, errorsmod.Wrapf(types.ErrProverUnavailable, "seal: %v", err)
	}
	s, err := seal.ParseSeal(sealBytes)
	if err != nil {
		return Proof{}, errorsmod.Wrapf(types.ErrProverUnavailable, "%v", err)
	}
	journalBytes, err := zkcrypto.HexToBytes(resp.Journal)
	if err != nil {
		return Proof{}, errorsmod.Wrapf(types.ErrProverUnavailable, "journal: %v", err)
	}
	if !bytes.Equal(journalBytes, want.Bytes()) {
		return Proof{}, errorsmod.Wrapf(types.ErrProverUnavailable, "prover returned journal %x, want %x", journalBytes, want.Bytes())
	}

	r.logger.Info("proof received",
		"kind", req.Kind,
		"session", req.SessionID,
		"request_id", reqID,
		"mock", resp.IsMock,
		"elapsed", time.Since(start).String(),
	)
	return Proof{Seal: s, Journal: journalBytes, IsMock: resp.IsMock}, nil
}

// Health probes GET /health.
func (r *Remote) Health(ctx context.Context) error {
	return r.do(ctx, http.MethodGet, "/health", uuid.NewString(), nil, nil)
}

func (r *Remote) do(ctx context.Context, method, path, reqID string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint+path, body)
	if err != nil {
		return errorsmod.Wrapf(types.ErrProverUnavailable, "build request: %v", err)
	}
	req.Header.Set(RequestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return errorsmod.Wrapf(types.ErrProverUnavailable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errorsmod.Wrapf(types.ErrProverUnavailable, "read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorsmod.Wrapf(types.ErrProverUnavailable, "%s %s returned %s: %s", method, path, resp.Status, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errorsmod.Wrapf(types.ErrProverUnavailable, "decode response: %v", err)
	}
	return nil
}
