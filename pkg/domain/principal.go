// Package domain provides type-safe identifiers shared across credential and ingestion code.
package domain

import (
	"encoding/base32"
	"encoding/binary"
	"hash/crc32"
	"strings"

	dErrors "credhub/pkg/domain-errors"
)

const (
	principalChecksumLen = 4
	principalMaxRawLen   = 29
	principalGroupLen    = 5
	// 33 bytes encode to 53 base32 characters, plus 10 group separators.
	principalMaxTextLen = 63
)

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is the canonical textual identity of a credential owner.
//
// The text form is lowercase base32 (RFC 4648, no padding) of a big-endian
// CRC-32 checksum followed by the raw principal bytes, split into groups of
// five characters joined by dashes.
type Principal string

// AnonymousPrincipal is the well-known principal for unauthenticated callers.
const AnonymousPrincipal Principal = "2vxsx-fae"

// ParsePrincipal validates a textual principal. Use at trust boundaries
// (CSV rows, HTTP paths, CLI arguments).
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	if len(s) > principalMaxTextLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is too long")
	}
	raw, err := decodePrincipal(s)
	if err != nil {
		return "", err
	}
	p := PrincipalFromBytes(raw)
	if string(p) != s {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is not in canonical form")
	}
	return p, nil
}

// PrincipalFromBytes encodes raw principal bytes into their textual form.
func PrincipalFromBytes(raw []byte) Principal {
	buf := make([]byte, principalChecksumLen+len(raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(raw))
	copy(buf[principalChecksumLen:], raw)
	encoded := strings.ToLower(principalEncoding.EncodeToString(buf))

	var b strings.Builder
	b.Grow(len(encoded) + len(encoded)/principalGroupLen)
	for i := 0; i < len(encoded); i += principalGroupLen {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(encoded[i:min(i+principalGroupLen, len(encoded))])
	}
	return Principal(b.String())
}

// Bytes returns the raw principal bytes. It returns nil for an invalid principal.
func (p Principal) Bytes() []byte {
	raw, err := decodePrincipal(string(p))
	if err != nil {
		return nil
	}
	return raw
}

func (p Principal) String() string { return string(p) }

func (p Principal) IsNil() bool { return p == "" }

func decodePrincipal(s string) ([]byte, error) {
	compact := strings.ToUpper(strings.ReplaceAll(s, "-", ""))
	decoded, err := principalEncoding.DecodeString(compact)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid principal format")
	}
	if len(decoded) < principalChecksumLen {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid principal format")
	}
	raw := decoded[principalChecksumLen:]
	if len(raw) > principalMaxRawLen {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal is too long")
	}
	if binary.BigEndian.Uint32(decoded[:principalChecksumLen]) != crc32.ChecksumIEEE(raw) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal checksum mismatch")
	}
	return raw, nil
}
