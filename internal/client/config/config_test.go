package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/topokeeper/internal/client/iocli"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

const accounts = `
[team]
id = TEAM01
key = a2V5LXRlYW0=

[partial]
id = ONLYID
`

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultDomain, cfg.Domain)
	assert.Equal(t, DefaultSyncInterval, cfg.SyncInterval)
	assert.Equal(t, DefaultSyncTimeout, cfg.SyncTimeout)
	assert.Equal(t, DefaultGateWait, cfg.GateWait)
	assert.Equal(t, DefaultDeleteParallelism, cfg.DeleteParallelism)
	assert.True(t, cfg.Sync)
	assert.False(t, cfg.Signed())
}

func TestResolve_Priority(t *testing.T) {
	path := writeINI(t, accounts)

	tests := []struct {
		env     map[string]string
		name    string
		flagID  string
		flagKey string
		wantID  string
		wantKey string
	}{
		{
			name:    "file only",
			wantID:  "TEAM01",
			wantKey: "a2V5LXRlYW0=",
		},
		{
			name:    "env overrides file",
			env:     map[string]string{EnvID: "ENVID", EnvKey: "ZW52"},
			wantID:  "ENVID",
			wantKey: "ZW52",
		},
		{
			name:    "flags override env",
			env:     map[string]string{EnvID: "ENVID", EnvKey: "ZW52"},
			flagID:  "FLAGID",
			flagKey: "ZmxhZw==",
			wantID:  "FLAGID",
			wantKey: "ZmxhZw==",
		},
		{
			name:    "key from env, id from file",
			env:     map[string]string{EnvKey: "ZW52"},
			wantID:  "TEAM01",
			wantKey: "ZW52",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ConfigFile = path
			cfg.Account = "team"
			cfg.ID = tt.flagID
			cfg.Key = tt.flagKey

			require.NoError(t, cfg.Resolve(env(tt.env)))
			assert.Equal(t, tt.wantID, cfg.ID)
			assert.Equal(t, tt.wantKey, cfg.Key)
			assert.True(t, cfg.Signed())
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	path := writeINI(t, accounts)

	cfg := Default()
	cfg.ConfigFile = path
	assert.ErrorContains(t, cfg.Resolve(env(nil)), "no account name")

	cfg.Account = "missing"
	assert.ErrorIs(t, cfg.Resolve(env(nil)), ErrAccountNotFound)

	cfg.Account = "partial"
	assert.ErrorIs(t, cfg.Resolve(env(nil)), ErrIncompleteAccount)

	cfg.ConfigFile = filepath.Join(t.TempDir(), "absent.ini")
	assert.Error(t, cfg.Resolve(env(nil)))
}

func TestResolve_NoCredentials(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Resolve(env(nil)))
	assert.False(t, cfg.Signed())
}

func TestPromptKey(t *testing.T) {
	var out bytes.Buffer
	cfg := Default()
	cfg.ID = "TEAM01"

	require.NoError(t, cfg.PromptKey(iocli.New(strings.NewReader("c2VjcmV0\n"), &out)))
	assert.Equal(t, "c2VjcmV0", cfg.Key)
	assert.Contains(t, out.String(), "TEAM01")

	// ключ уже задан, ввод не читается
	require.NoError(t, cfg.PromptKey(iocli.New(strings.NewReader(""), &out)))

	cfg.Key = ""
	assert.Error(t, cfg.PromptKey(iocli.New(strings.NewReader("\n"), &out)))
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.MapID = "ABC"
	require.NoError(t, valid.Validate())

	tests := map[string]func(*Config){
		"missing map":      func(c *Config) { c.MapID = "" },
		"bad domain":       func(c *Config) { c.Domain = "ftp://x" },
		"bad account":      func(c *Config) { c.ID = "a b" },
		"zero interval":    func(c *Config) { c.SyncInterval = 0 },
		"zero timeout":     func(c *Config) { c.SyncTimeout = 0 },
		"zero gate wait":   func(c *Config) { c.GateWait = 0 },
		"zero parallelism": func(c *Config) { c.DeleteParallelism = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBaseURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
}
