package encoding

import (
	"strings"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageState struct {
	Sort    string `msgpack:"s"`
	Reverse bool   `msgpack:"r"`
	Page    int    `msgpack:"p"`
}

// filterState flattens itself through StateMarshaler.
type filterState struct {
	Status string
	Limit  int64
}

func (f filterState) MarshalState() map[string]any {
	return map[string]any{"status": f.Status, "limit": f.Limit}
}

func (f *filterState) UnmarshalState(m map[string]any) error {
	if v, ok := m["status"].(string); ok {
		f.Status = v
	}
	// msgpack picks the narrowest integer type on decode.
	limit, err := cast.ToInt64E(m["limit"])
	if err != nil {
		return err
	}
	f.Limit = limit
	return nil
}

func TestNewEncoder(t *testing.T) {
	_, err := NewEncoder([]byte("short"))
	require.NoError(t, err)

	_, err = NewEncoder([]byte("this-is-a-much-longer-key-of-more-than-32-bytes"))
	require.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)

	for _, sensitive := range []bool{false, true} {
		name := "signed"
		if sensitive {
			name = "encrypted"
		}
		t.Run(name, func(t *testing.T) {
			original := pageState{Sort: "created", Reverse: true, Page: 3}

			token, err := enc.Encode(original, sensitive)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, !sensitive, strings.Contains(token, "."))

			var decoded pageState
			require.NoError(t, enc.Decode(token, sensitive, &decoded))
			assert.Equal(t, original, decoded)
		})
	}
}

func TestRoundTripStateMarshaler(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)

	token, err := enc.Encode(filterState{Status: "open", Limit: 25}, false)
	require.NoError(t, err)

	var decoded filterState
	require.NoError(t, enc.Decode(token, false, &decoded))
	assert.Equal(t, filterState{Status: "open", Limit: 25}, decoded)
}

func TestTamperedSignature(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)

	token, err := enc.Encode(pageState{Sort: "name"}, false)
	require.NoError(t, err)

	payload, _, _ := strings.Cut(token, ".")
	other, err := enc.Encode(pageState{Sort: "secret"}, false)
	require.NoError(t, err)
	_, sig, _ := strings.Cut(other, ".")

	var decoded pageState
	err = enc.Decode(payload+"."+sig, false, &decoded)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestWrongKey(t *testing.T) {
	enc1, err := NewEncoder([]byte("key-one"))
	require.NoError(t, err)
	enc2, err := NewEncoder([]byte("key-two"))
	require.NoError(t, err)

	signed, err := enc1.Encode(pageState{Sort: "name"}, false)
	require.NoError(t, err)
	encrypted, err := enc1.Encode(pageState{Sort: "name"}, true)
	require.NoError(t, err)

	var decoded pageState
	assert.ErrorIs(t, enc2.Decode(signed, false, &decoded), ErrSignatureInvalid)
	assert.ErrorIs(t, enc2.Decode(encrypted, true, &decoded), ErrDecryptFailed)
}

func TestInvalidFormat(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		sensitive bool
	}{
		{"missing signature", "abc", false},
		{"bad base64 payload", "!!!.abc", false},
		{"bad base64 ciphertext", "!!!", true},
		{"short ciphertext", "YWJj", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded pageState
			err := enc.Decode(tt.token, tt.sensitive, &decoded)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestEncryptedTokensDiffer(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	require.NoError(t, err)

	a, err := enc.Encode(pageState{Sort: "name"}, true)
	require.NoError(t, err)
	b, err := enc.Encode(pageState{Sort: "name"}, true)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per token")
	assert.NotContains(t, a, "name")
}
