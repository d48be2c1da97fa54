package zkcrypto

import "encoding/binary"

// U32BE returns x as 4 big-endian bytes.
func U32BE(x uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, x)
	return b
}

// U64LE returns x as 8 little-endian bytes.
func U64LE(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}

// ConcatBytes joins chunks into a freshly allocated slice.
func ConcatBytes(chunks ...[]byte) []byte {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
