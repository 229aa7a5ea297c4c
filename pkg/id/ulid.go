// Package id generates run and request identifiers.
//
// IDs are ULIDs: 26 Crockford Base32 characters, a 48-bit millisecond
// timestamp followed by 80 random bits, so they sort by creation time.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const (
	ulidLen = 26
	timeLen = 10
)

// ErrInvalid is returned when a string is not a ULID.
var ErrInvalid = errors.New("id: invalid ulid")

// NewULID returns a ULID stamped with the current time.
func NewULID() string {
	return NewULIDAt(time.Now())
}

// NewULIDAt returns a ULID stamped with t.
func NewULIDAt(t time.Time) string {
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
	}

	var out [ulidLen]byte

	ms := uint64(t.UnixMilli())
	for i := timeLen - 1; i >= 0; i-- {
		out[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	// 80 random bits as two 40-bit halves, 8 chars each.
	hi := uint64(entropy[0])<<32 | uint64(binary.BigEndian.Uint32(entropy[1:5]))
	lo := uint64(entropy[5])<<32 | uint64(binary.BigEndian.Uint32(entropy[6:10]))
	for i := 7; i >= 0; i-- {
		out[timeLen+i] = crockfordBase32[hi&0x1F]
		out[timeLen+8+i] = crockfordBase32[lo&0x1F]
		hi >>= 5
		lo >>= 5
	}

	return string(out[:])
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	if len(s) != ulidLen {
		return false
	}
	for i := range len(s) {
		if strings.IndexByte(crockfordBase32, s[i]) < 0 {
			return false
		}
	}
	return true
}

// Time returns the timestamp encoded in a ULID.
func Time(s string) (time.Time, error) {
	if !Valid(s) {
		return time.Time{}, ErrInvalid
	}
	var ms uint64
	for i := range timeLen {
		ms = ms<<5 | uint64(strings.IndexByte(crockfordBase32, s[i]))
	}
	return time.UnixMilli(int64(ms)), nil
}
