package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 60*time.Second, cfg.Browser.LaunchTimeout)
	assert.Equal(t, 2*time.Second, cfg.Crawl.Delay)
	assert.Equal(t, 30*time.Second, cfg.Crawl.NavigationTimeout)
	assert.Equal(t, 2*time.Second, cfg.Crawl.ProjectSettle)
	assert.Equal(t, 3*time.Second, cfg.Crawl.GallerySettle)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.True(t, cfg.Analyzer.Enabled)
	assert.Equal(t, "gemini", cfg.Analyzer.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Analyzer.GeminiModel)
	assert.Equal(t, "data/raw", cfg.Output.DataDir)
	assert.Equal(t, "reports", cfg.Output.ReportsDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Analyzer.GeminiKey)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
crawl:
  delay: 5s
analyzer:
  provider: anthropic
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Crawl.Delay)
	assert.Equal(t, "anthropic", cfg.Analyzer.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 30*time.Second, cfg.Crawl.NavigationTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: warn\n"), 0644))
	t.Setenv("HACKINSIGHT_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadEnvOnlyKeys(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("HACKINSIGHT_ANALYZER_GEMINI_KEY", "secret-from-env")
	t.Setenv("HACKINSIGHT_ANALYZER_ANTHROPIC_KEY", "other-secret")
	t.Setenv("HACKINSIGHT_BROWSER_PROXY_URL", "http://127.0.0.1:7890")
	t.Setenv("HACKINSIGHT_BROWSER_BIN_PATH", "/usr/bin/chromium")
	t.Setenv("HACKINSIGHT_CRAWL_DELAY", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Analyzer.GeminiKey)
	assert.Equal(t, "other-secret", cfg.Analyzer.AnthropicKey)
	assert.Equal(t, "http://127.0.0.1:7890", cfg.Browser.ProxyURL)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.BinPath)
	assert.Equal(t, 5*time.Second, cfg.Crawl.Delay)
}

func TestLoadProviderKeyFallback(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.Analyzer.GeminiKey)
	assert.Equal(t, "a-key", cfg.Analyzer.AnthropicKey)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
