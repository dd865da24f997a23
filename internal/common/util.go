package common

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomInt64 returns 64 crypto-random bits as an int64.
// It panics if the system random source fails, which leaves nothing sensible to do.
func RandomInt64() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return int64(binary.BigEndian.Uint64(b[:]))
}
