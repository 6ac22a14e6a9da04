package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.txt")
	require.NoError(t, os.WriteFile(path, []byte("preamble\n[]\ntrailer"), 0o600))

	text, err := File{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "preamble\n[]\ntrailer", text)
}

func TestFileFetchMissing(t *testing.T) {
	_, err := File{Path: filepath.Join(t.TempDir(), "nope.txt")}.Fetch(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := File{Path: "-"}.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReaderFetch(t *testing.T) {
	text, err := Reader{R: strings.NewReader("a\nb\nc")}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", text)
}

func TestStaticFetch(t *testing.T) {
	text, err := Static("fixed").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", text)
}
