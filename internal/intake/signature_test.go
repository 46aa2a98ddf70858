package intake

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSignature(t *testing.T) {
	payload := []byte("signature-image-bytes")
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	t.Run("valid data URL", func(t *testing.T) {
		in := New(newTestStaging(t), testLogger())
		path, ok := in.DecodeSignature(dataURL, "qc_signature.png")
		require.True(t, ok)

		stored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, stored)
	})

	t.Run("empty input", func(t *testing.T) {
		in := New(newTestStaging(t), testLogger())
		_, ok := in.DecodeSignature("", "qc_signature.png")
		assert.False(t, ok)
	})

	t.Run("no comma", func(t *testing.T) {
		in := New(newTestStaging(t), testLogger())
		_, ok := in.DecodeSignature("data:image/png;base64", "qc_signature.png")
		assert.False(t, ok)
	})

	t.Run("invalid base64", func(t *testing.T) {
		in := New(newTestStaging(t), testLogger())
		_, ok := in.DecodeSignature("data:image/png;base64,!!not-base64!!", "qc_signature.png")
		assert.False(t, ok)
	})

	t.Run("storage failure", func(t *testing.T) {
		staging := newTestStaging(t)
		require.NoError(t, os.RemoveAll(staging.Root()))
		in := New(staging, testLogger())
		_, ok := in.DecodeSignature(dataURL, "qc_signature.png")
		assert.False(t, ok)
	})
}
