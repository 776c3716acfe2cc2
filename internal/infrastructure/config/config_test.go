package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  driver: memory
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ListTTL)
	assert.Equal(t, []string{"order.#"}, cfg.MQ.RoutingKeys)
	assert.False(t, cfg.AI.Enabled())
	assert.False(t, cfg.MQ.Enabled())
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  password: from-file
`)
	t.Setenv("BOOKSTORE_DATABASE_PASSWORD", "from-env")
	t.Setenv("BOOKSTORE_AI_API_KEY", "key")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"缺少JWT密钥", "server:\n  port: 8080\n"},
		{"端口非法", "server:\n  port: 70000\njwt:\n  secret: s\n"},
		{"驱动非法", "database:\n  driver: sqlite\njwt:\n  secret: s\n"},
		{"生产环境默认密钥", "server:\n  mode: release\njwt:\n  secret: your-secret-key-change-in-production\n"},
		{"管理员缺少密码", "jwt:\n  secret: s\nadmin:\n  email: a@b.com\n"},
		{"追踪缺少端点", "jwt:\n  secret: s\ntracing:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "bookshelf",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(db:3306)/bookshelf?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		d.DSN())
}
