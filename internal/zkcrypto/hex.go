package zkcrypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexToBytes decodes a hex string, accepting an optional 0x prefix and either case.
func HexToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("hex: empty string")
	}
	ss := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(ss)%2 != 0 {
		return nil, fmt.Errorf("hex: odd length")
	}
	b, err := hex.DecodeString(ss)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return b, nil
}

// BytesToHex encodes b as unprefixed lowercase hex, the form the prover
// server expects for hash fields.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
