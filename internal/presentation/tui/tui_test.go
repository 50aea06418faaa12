package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "scope voice relay 1.2.3")
}

func TestRendererFor_File(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.md"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	out, err := RendererFor(f)("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer()("**applied**")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
}
