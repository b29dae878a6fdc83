// Package canonical produces the exact byte strings that the QCC backend
// hashes and verifies. Any difference in output here changes every hash,
// signature and address derived from it.
package canonical

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Canonicalize converts v into the string that gets hashed and signed.
//
// Objects (Payload, maps, structs, slices) are JSON encoded in their natural
// key order; scalars are rendered the way JavaScript's String() renders them.
// Then every '/' becomes `\/` and every UTF-16 code unit of 0x100 or above
// becomes `\u` followed by its lower-case hex digits, unpadded.
func Canonicalize(v any) (string, error) {
	s, err := stringify(v)
	if err != nil {
		return "", err
	}
	return escape(s), nil
}

// CanonicalizeString is Canonicalize for a plain string; it cannot fail.
func CanonicalizeString(s string) string {
	return escape(s)
}

func stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	default:
		// encoding/json renders bools and numbers (including ES6 float
		// formatting) exactly as String() does in JavaScript.
		b, err := marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '/':
			b.WriteString(`\/`)
		case r < 0x100:
			b.WriteRune(r)
		case r <= 0xFFFF:
			writeUnit(&b, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			writeUnit(&b, hi)
			writeUnit(&b, lo)
		}
	}
	return b.String()
}

func writeUnit(b *strings.Builder, unit rune) {
	b.WriteString(`\u`)
	b.WriteString(strconv.FormatInt(int64(unit), 16))
}

// SigningBytes converts s to the message bytes fed to ed25519: one byte per
// UTF-16 code unit, keeping the low eight bits. For canonical strings every
// unit is below 0x100, so nothing is lost.
func SigningBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = byte(u)
	}
	return out
}
