package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPrefix+"_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, c.Service.Transport)
	require.Equal(t, compile.DefaultEndpoint, c.Service.Endpoint)
	require.Equal(t, compile.DefaultTimeout, c.Service.Timeout)
	require.Equal(t, compile.DefaultUTCPTool, c.UTCP.Tool)
	require.Equal(t, "-o out top.alogic", c.Playground.Args)
	require.Equal(t, "top.alogic", c.Playground.SeedTitle)
	require.Equal(t, "info", c.Log.Level)
	require.Equal(t, 30*time.Second, c.Server.Timeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "alogic-playground")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[service]
transport = "utcp"
timeout = "5s"

[playground]
args = "-o build top.alogic"
seed_title = "main.alogic"
`), 0o644))
	t.Setenv("ALOGIC_PLAYGROUND_LOG_LEVEL", "debug")
	t.Setenv("ALOGIC_PLAYGROUND_SERVER_ADDR", ":9000")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, TransportUTCP, c.Service.Transport)
	require.Equal(t, 5*time.Second, c.Service.Timeout)
	require.Equal(t, "-o build top.alogic", c.Playground.Args)
	require.Equal(t, "main.alogic", c.Playground.SeedTitle)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, ":9000", c.Server.Addr)
}

func TestLoadExplicitPath(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	t.Setenv(EnvPrefix+"_CONFIG", path)

	_, err := Load()
	require.Error(t, err, "a named config file must exist")

	require.NoError(t, os.WriteFile(path, []byte("[service]\nendpoint = \"http://localhost:8080\"\n"), 0o644))
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.Service.Endpoint)
	require.Equal(t, path, Path())
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	isolate(t)
	t.Setenv("ALOGIC_PLAYGROUND_SERVICE_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.ErrorContains(t, err, "service.transport")
}

func TestValidate(t *testing.T) {
	c := Config{
		Service: ServiceConfig{Transport: TransportHTTP},
		Log:     LogConfig{Level: "WARN"},
		Server:  ServerConfig{Timeout: time.Second},
	}
	require.NoError(t, c.Validate())

	c.Log.Level = "loud"
	require.Error(t, c.Validate())

	c.Log.Level = "info"
	c.Server.Timeout = 0
	require.Error(t, c.Validate())
}
