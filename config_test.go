package micropy_test

import (
	"os"
	"path/filepath"
	"testing"

	"micropy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := micropy.DefaultConfig()
	assert.Equal(t, "Input>>", cfg.InputPrompt)
	assert.Equal(t, "fresh", cfg.CallFrames)
	assert.Equal(t, micropy.FreshFrames, cfg.FrameMode())
	assert.Equal(t, 10000, cfg.MaxCallDepth)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DumpAST)
}

func TestParseConfig(t *testing.T) {
	cfg, err := micropy.ParseConfig(`
# legacy call semantics
call.frames = shared
call.maxdepth = 64
log.level = debug
dump.ast = true
`)
	require.NoError(t, err)
	assert.Equal(t, micropy.SharedFrames, cfg.FrameMode())
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DumpAST)
	assert.Equal(t, "Input>>", cfg.InputPrompt)
}

func TestParseConfig_Invalid(t *testing.T) {
	for _, text := range []string{
		"call.frames = stacked",
		"call.maxdepth = 0",
		"call.maxdepth = -5",
		"call.maxdepth = many",
	} {
		_, err := micropy.ParseConfig(text)
		assert.Error(t, err, text)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := micropy.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, micropy.DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "micropy.properties")
	require.NoError(t, os.WriteFile(path, []byte("input.prompt = ?\ncall.frames = shared\n"), 0o644))
	cfg, err = micropy.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.InputPrompt)
	assert.Equal(t, micropy.SharedFrames, cfg.FrameMode())

	_, err = micropy.LoadConfig(filepath.Join(t.TempDir(), "missing.properties"))
	assert.Error(t, err)
}

func TestParseFrameMode(t *testing.T) {
	for _, mode := range []micropy.FrameMode{micropy.FreshFrames, micropy.SharedFrames} {
		parsed, err := micropy.ParseFrameMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}
	_, err := micropy.ParseFrameMode("Fresh")
	assert.Error(t, err)
}
