package canonical

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEscaping(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "abc", "abc"},
		{"slash", "a/b/c", `a\/b\/c`},
		{"latin1 passes", "café ÿ", "café ÿ"},
		{"three hex digits unpadded", "Ā", `\u100`},
		{"hangul", "한", `\ud55c`},
		{"surrogate pair", "😀", `\ud83d\ude00`},
		{"integer", int64(1700000000000000), "1700000000000000"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"nil", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizePayloadKeepsOrder(t *testing.T) {
	p := NewPayload().
		Set("a", "x/y").
		Set("b", "é").
		Set("c", "Ā").
		Set("d", "한").
		Set("e", "😀").
		Set("f", 1.5).
		Set("g", true).
		Set("h", nil)

	got, err := Canonicalize(p)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x\/y","b":"é","c":"\u100","d":"\ud55c","e":"\ud83d\ude00","f":1.5,"g":true,"h":null}`, got)

	// Reference value computed by the JavaScript wallet.
	h, err := Hash(p)
	require.NoError(t, err)
	assert.Equal(t, "1e5254b79c65eb412220593e57c8689e34cdf8110e627b731230414576ec0e1b", h)
}

func TestCanonicalizeNoHTMLEscaping(t *testing.T) {
	got, err := Canonicalize(NewPayload().Set("q", "<a&b>"))
	require.NoError(t, err)
	assert.Equal(t, `{"q":"<a&b>"}`, got)
}

func TestPayloadSetKeepsPosition(t *testing.T) {
	p := NewPayload().Set("type", "Send").Set("timestamp", nil).Set("to", "x")
	p.Set("timestamp", int64(5))

	assert.Equal(t, []string{"type", "timestamp", "to"}, p.Keys())
	ts, ok := p.Int64("timestamp")
	require.True(t, ok)
	assert.Equal(t, int64(5), ts)
}

func TestPayloadUnmarshalKeepsDocumentOrder(t *testing.T) {
	var p Payload
	err := json.Unmarshal([]byte(`{"z":1,"a":{"y":"b","x":[1,"two",null]},"m":2.5}`), &p)
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, p.Keys())

	z, ok := p.Int64("z")
	require.True(t, ok)
	assert.Equal(t, int64(1), z)

	nested, ok := p.Get("a")
	require.True(t, ok)
	require.IsType(t, &Payload{}, nested)
	assert.Equal(t, []string{"y", "x"}, nested.(*Payload).Keys())

	_, ok = p.Int64("m")
	assert.False(t, ok)

	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":"b","x":[1,"two",null]},"m":2.5}`, string(out))
}

func TestPayloadUnmarshalRejectsNonObject(t *testing.T) {
	var p Payload
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}

func TestSigningBytes(t *testing.T) {
	assert.Equal(t, []byte("abc"), SigningBytes("abc"))
	// é is U+00E9: one byte, not its two-byte UTF-8 form.
	assert.Equal(t, []byte{0xe9}, SigningBytes("é"))
}

func TestHexTime(t *testing.T) {
	assert.Equal(t, "060a24181e4000", HexTime(1700000000000000))
	assert.Equal(t, "00000000000000", HexTime(0))
	assert.Equal(t, "000000000000ff", HexTime(255))
	// Fifteen hex digits: the last one is cut.
	assert.Equal(t, "123456789abcde", HexTime(0x123456789abcdef))
}

func TestTxHash(t *testing.T) {
	p := NewPayload().
		Set("type", "Send").
		Set("to", "addrX").
		Set("amount", "1000000000000000000").
		Set("timestamp", int64(1700000000000000)).
		Set("from", "d872925d1be79413139a6ede7db28481c7ab434c6269")

	got, err := TxHash(p)
	require.NoError(t, err)
	assert.Equal(t, "060a24181e400005015eeeb056e0921ebc2f3a8c38eeb61d849de5c54ceb0ffbb78e471e197549", got)
}

func TestTxHashMissingTimestamp(t *testing.T) {
	_, err := TxHash(NewPayload().Set("timestamp", "soon"))
	require.ErrorIs(t, err, ErrMissingTimestamp)
}

func TestIDHash(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashString("abc"))

	id, err := IDHash("abc")
	require.NoError(t, err)
	assert.Equal(t, "261dbda81f380af4b7a3c0c27ab8d8a02fd8e95c5676", id)
	assert.Equal(t, "5676", Checksum(id[:40]))
}

var lowerHex = regexp.MustCompile(`^[0-9a-f]+$`)

func TestCanonicalProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ASCII payloads without slashes canonicalize to plain JSON", prop.ForAll(
		func(keys []string, value string) bool {
			p := NewPayload()
			for _, k := range keys {
				p.Set(k, value)
			}
			got, err := Canonicalize(p)
			if err != nil {
				return false
			}
			want, err := json.Marshal(p)
			if err != nil {
				return false
			}
			again, err := Canonicalize(p)
			return err == nil && got == string(want) && got == again
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.Property("checksum is four lower-case hex characters", prop.ForAll(
		func(s string) bool {
			c := Checksum(s)
			return len(c) == ChecksumSize && lowerHex.MatchString(c)
		},
		gen.AnyString(),
	))

	properties.Property("id hash is short hash plus checksum", prop.ForAll(
		func(s string) bool {
			short, err := ShortHash(s)
			if err != nil {
				return false
			}
			id, err := IDHash(s)
			return err == nil && len(id) == len(short)+ChecksumSize && id[:len(short)] == short
		},
		gen.AlphaString(),
	))

	properties.Property("canonical output only holds code units below 0x100", prop.ForAll(
		func(s string) bool {
			for _, r := range CanonicalizeString(s) {
				if r >= 0x100 {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
