package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hostpanel/internal/testutil"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"DROP", "TRUNCATE", "DELETE", "UPDATE"}, cfg.Browser.DeniedVerbs)
	assert.Equal(t, time.Duration(0), cfg.Browser.QueryTimeout)
	assert.Equal(t, "@every 1m", cfg.Nodes.CheckSchedule)
	assert.Equal(t, SecretsSQLite, cfg.Secrets.Backend)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
data_dir: /srv/hostpanel
log:
  level: debug
http:
  addr: ":9000"
browser:
  denied_verbs: [drop, alter]
  query_timeout: 5s
`)
	t.Setenv("HOSTPANEL_HTTP__ADDR", ":9100")
	t.Setenv("HOSTPANEL_NODES__CHECK_SCHEDULE", "@every 30s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("http-addr", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=warn"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.FileUsed)
	assert.Equal(t, "/srv/hostpanel", cfg.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level, "flag beats file")
	assert.Equal(t, ":9100", cfg.HTTP.Addr, "env beats file; unset flag is ignored")
	assert.Equal(t, "@every 30s", cfg.Nodes.CheckSchedule)
	assert.Equal(t, []string{"DROP", "ALTER"}, cfg.Browser.DeniedVerbs)
	assert.Equal(t, 5*time.Second, cfg.Browser.QueryTimeout)
	assert.Equal(t, filepath.Join("/srv/hostpanel", "hostpanel.db"), cfg.DatabasePath())
}

func TestLoad_EnvVerbList(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOSTPANEL_BROWSER__DENIED_VERBS", "drop, grant")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"DROP", "GRANT"}, cfg.Browser.DeniedVerbs)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errSubstr string
	}{
		{name: "log level", body: "log:\n  level: loud\n", errSubstr: "log.level"},
		{name: "secrets backend", body: "secrets:\n  backend: vault\n", errSubstr: "secrets.backend"},
		{name: "negative timeout", body: "browser:\n  query_timeout: -1s\n", errSubstr: "query_timeout"},
		{name: "broken yaml", body: "log: [", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "browser:\n  denied_verbs: [drop]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, testutil.NewTestLogger(t), func(c *Config) { changes <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "browser:\n  denied_verbs: [drop, alter]\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, []string{"DROP", "ALTER"}, cfg.Browser.DeniedVerbs)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}
