package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xish-project/xish/internal/token"
)

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	original := reexecPayload{
		Mode:     reexecPipelineSegment,
		Tokens:   []token.Token{tok(token.WORD, "jobs")},
		JobLines: []string{"[1] Running\t\tsleep 10"},
	}

	encoded, err := encodePayload(original)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := decodePayload(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestDecodePayloadRejectsInvalidBase64(t *testing.T) {
	_, err := decodePayload("not valid base64!!!")
	require.Error(t, err)
}

func TestDecodePayloadRejectsInvalidJSON(t *testing.T) {
	encoded, err := encodePayload(reexecPayload{Mode: reexecBracket})
	require.NoError(t, err)
	_ = encoded

	_, err = decodePayload("bm90IGpzb24=") // base64("not json")
	require.Error(t, err)
}

func TestReexecModesAreDistinct(t *testing.T) {
	modes := map[reexecMode]bool{
		reexecBracket:         true,
		reexecPipelineSegment: true,
		reexecBackgroundAndOr: true,
	}
	require.Len(t, modes, 3)
}
