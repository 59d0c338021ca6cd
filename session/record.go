// Package session stores the single authoritative token pair per login in
// Redis. Records are written whole with one SET, so a pair is always
// replaced atomically; rotation goes through a Lua compare-and-swap so a
// replayed refresh token loses the race instead of forking the session.
package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Record is the authoritative pair stored for one login.
type Record struct {
	Login        string
	AccessToken  string
	RefreshToken string
	IssuedAt     int64
}

// recordVersion is the on-wire format version. Bump it when the layout
// changes; decode rejects versions it does not know.
const recordVersion = 1

// Layout, all integers big-endian:
//
//	[1]  version
//	[2]  login length   [n] login
//	[2]  access length  [n] access token
//	[2]  refresh length [n] refresh token
//	[8]  issued-at unix seconds
//
// The rotate script in store.go walks the same layout; keep them in sync.
func encodeRecord(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(recordVersion)

	for _, field := range []string{r.Login, r.AccessToken, r.RefreshToken} {
		if len(field) > math.MaxUint16 {
			return nil, fmt.Errorf("session: field exceeds %d bytes", math.MaxUint16)
		}
		var size [2]byte
		binary.BigEndian.PutUint16(size[:], uint16(len(field)))
		buf.Write(size[:])
		buf.WriteString(field)
	}

	var issued [8]byte
	binary.BigEndian.PutUint64(issued[:], uint64(r.IssuedAt))
	buf.Write(issued[:])

	return buf.Bytes(), nil
}

var errCorruptRecord = errors.New("session: corrupt record")

func decodeRecord(data []byte) (*Record, error) {
	if len(data) < 1 || data[0] != recordVersion {
		return nil, errCorruptRecord
	}
	rest := data[1:]

	fields := make([]string, 3)
	for i := range fields {
		if len(rest) < 2 {
			return nil, errCorruptRecord
		}
		size := int(binary.BigEndian.Uint16(rest))
		rest = rest[2:]
		if len(rest) < size {
			return nil, errCorruptRecord
		}
		fields[i] = string(rest[:size])
		rest = rest[size:]
	}

	if len(rest) != 8 {
		return nil, errCorruptRecord
	}

	return &Record{
		Login:        fields[0],
		AccessToken:  fields[1],
		RefreshToken: fields[2],
		IssuedAt:     int64(binary.BigEndian.Uint64(rest)),
	}, nil
}
