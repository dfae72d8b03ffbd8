package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	AcceptLanguage string `json:"accept_language"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "neko.json5"), `{
		// comments are allowed
		base_url: "https://jkanime.net",
		timeout_seconds: 30,
		accept_language: "es"
	}`)
	writeFile(t, filepath.Join(dir, "neko.local.json5"), `{
		timeout_seconds: 5
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "neko.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:        "https://jkanime.net",
		TimeoutSeconds: 5,
		AcceptLanguage: "es",
	}, cfg)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "neko.local.json5"), `{base_url: "http://localhost:8080"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "neko.json5"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseUrl)
}

func TestReadConfigMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadConfig[testConfig](filepath.Join(dir, "neko.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "neko.json5"), `{base_url: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "neko.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestSplitExt(t *testing.T) {
	name, ext := splitExt("neko.json5")
	require.Equal(t, "neko", name)
	require.Equal(t, "json5", ext)

	name, ext = splitExt("neko")
	require.Equal(t, "neko", name)
	require.Equal(t, "", ext)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "one", "two")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, "neko.json5"), `{base_url: "https://jkanime.net"}`)
	writeFile(t, filepath.Join(root, "one", "neko.local.json5"), `{timeout_seconds: 7}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	// the nearest directory with either file wins, parents are not merged
	cfg, err := ReadRecursively[testConfig]("neko.json5")
	require.NoError(t, err)
	require.Equal(t, testConfig{TimeoutSeconds: 7}, cfg)

	require.NoError(t, os.Chdir(root))
	cfg, err = ReadRecursively[testConfig]("neko.json5")
	require.NoError(t, err)
	require.Equal(t, "https://jkanime.net", cfg.BaseUrl)
}
