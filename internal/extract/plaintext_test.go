package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractor(t *testing.T) {
	e := NewPlainTextExtractor()
	ctx := context.Background()

	t.Run("extracts and trims text", func(t *testing.T) {
		res, err := e.Extract(ctx, "notes.txt", []byte("  This Agreement is made between the parties.  \n"))
		require.NoError(t, err)
		assert.Equal(t, "This Agreement is made between the parties.", res.Text)
		assert.Equal(t, "TEXT", res.SourceType)
		assert.Empty(t, res.Warnings)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		_, err := e.Extract(ctx, "blank.txt", []byte("   \n\t "))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		_, err := e.Extract(ctx, "scan.pdf", []byte("%PDF-1.7"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("no extension treated as text", func(t *testing.T) {
		res, err := e.Extract(ctx, "README", []byte("lease agreement"))
		require.NoError(t, err)
		assert.Equal(t, "lease agreement", res.Text)
	})

	t.Run("invalid utf8 replaced with warning", func(t *testing.T) {
		res, err := e.Extract(ctx, "odd.txt", []byte{0x68, 0x69, 0xff, 0xfe, 0x21})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Warnings)
		assert.Contains(t, res.Text, "hi")
	})
}
