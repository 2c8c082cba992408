package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/gatekeeper/config"
	"github.com/haguru/gatekeeper/internal/auth"
	"github.com/haguru/gatekeeper/internal/hasher"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `service_name: gatekeeper
loglevel: info
host: localhost
port: "8080"
hasher:
  algorithm: bcrypt
  bcrypt_cost: 4
credential_store:
  type: file
` + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashCmd(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := execute(t, "s3cret\n", "hash", "--config", cfgPath)
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	h, err := hasher.New(config.Hasher{Algorithm: config.HasherBcrypt})
	require.NoError(t, err)
	assert.True(t, h.Verify("s3cret", hash))
}

func TestHashCmd_EmptyPassword(t *testing.T) {
	_, err := execute(t, "\n", "hash", "--config", writeConfig(t, ""))
	assert.Error(t, err)
}

func TestKeygenCmd(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "keys", "signing.pem")
	cfgPath := writeConfig(t, "private_key_path: "+keyPath+"\n")

	_, err := execute(t, "", "keygen", "--config", cfgPath)
	require.NoError(t, err)

	_, err = auth.LoadECDSAPrivateKey(keyPath)
	require.NoError(t, err)

	_, err = execute(t, "", "keygen", "--config", cfgPath)
	assert.Error(t, err, "existing key must not be overwritten")
}

func TestKeygenCmd_OutFlag(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "out.pem")

	_, err := execute(t, "", "keygen", "--out", keyPath, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestServeCmd_BadConfig(t *testing.T) {
	_, err := execute(t, "", "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
