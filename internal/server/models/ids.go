// Package models defines server-side data models persisted in the database
// and returned by the set service.
package models

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/postsets/internal/common"
)

// idEncoding renders 8 id bytes as 11 URL-safe characters.
var idEncoding = base64.RawURLEncoding

const encodedIDLength = 11

// SetID identifies a set. It is stored as BIGINT and exposed as base64 text.
type SetID int64

// PostID identifies a post owned by the post service.
type PostID int64

func (id SetID) String() string  { return encodeID(int64(id)) }
func (id PostID) String() string { return encodeID(int64(id)) }

// ParseSetID decodes the public form of a set id.
func ParseSetID(s string) (SetID, error) {
	v, err := decodeID("set", s)
	return SetID(v), err
}

// ParsePostID decodes the public form of a post id.
func ParsePostID(s string) (PostID, error) {
	v, err := decodeID("post", s)
	return PostID(v), err
}

func encodeID(v int64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return idEncoding.EncodeToString(b[:])
}

func decodeID(kind, s string) (int64, error) {
	if len(s) != encodedIDLength {
		return 0, common.NewBadRequest("malformed %s id: %q", kind, s)
	}
	b, err := idEncoding.DecodeString(s)
	if err != nil || len(b) != 8 {
		return 0, common.NewBadRequest("malformed %s id: %q", kind, s)
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// MustParseSetID is ParseSetID for literals in tests and fixtures.
func MustParseSetID(s string) SetID {
	id, err := ParseSetID(s)
	if err != nil {
		panic(fmt.Sprintf("models: %v", err))
	}
	return id
}
