package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	GoldenKey string `json:"golden_key"`
	BaseUrl   string `json:"base_url"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "funpay.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// checked-in defaults
		base_url: "https://funpay.com",
	}`), 0o644))

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "https://funpay.com", cfg.BaseUrl)
	require.Equal(t, "", cfg.GoldenKey)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "funpay.json5"), []byte(`{
		base_url: "https://funpay.com",
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "funpay.local.json5"), []byte(`{
		golden_key: "secret",
	}`), 0o644))

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "funpay.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://funpay.com", cfg.BaseUrl)
	require.Equal(t, "secret", cfg.GoldenKey)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "funpay.local.json5"), []byte(`{
		golden_key: "secret",
	}`), 0o644))

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "funpay.json5"))
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.GoldenKey)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "funpay.json5"))
	require.Error(t, err)
}
