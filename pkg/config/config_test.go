package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QNA_AUTH_SECRET_KEY", "from-env")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, []string{"http://127.0.0.1:5173"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "frontend/dist", cfg.Server.FrontendDir)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "qna.db", cfg.DB.Path)
	assert.Equal(t, "from-env", cfg.Auth.SecretKey)
	assert.Equal(t, 1440, cfg.Auth.AccessTokenExpireMinutes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9000"
  mode: debug
db:
  driver: postgres
  host: db.internal
  user: qna
  name: qna
auth:
  secret_key: from-file
  access_token_expire_minutes: 30
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("QNA_AUTH_SECRET_KEY", "from-env")
	t.Setenv("QNA_DB_PORT", "6543")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "from-env", cfg.Auth.SecretKey)
	assert.Equal(t, 30, cfg.Auth.AccessTokenExpireMinutes)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("QNA_AUTH_SECRET_KEY", "")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("postgres without host", func(t *testing.T) {
		t.Setenv("QNA_AUTH_SECRET_KEY", "secret")
		t.Setenv("QNA_DB_DRIVER", "postgres")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("QNA_AUTH_SECRET_KEY", "secret")
		t.Setenv("QNA_DB_DRIVER", "mysql")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
}

func TestLoad_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))
	t.Setenv("QNA_AUTH_SECRET_KEY", "secret")

	_, err := Load(dir)
	assert.Error(t, err)
}
