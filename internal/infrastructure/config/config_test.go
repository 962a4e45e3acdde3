package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp 切换到临时目录，避免读到仓库里的config.yaml和.env
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatisticsTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "server:\n  port: 9090\ndatabase:\n  driver: memory\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("BOOKSTORE_SERVER_PORT", "9191")
	t.Setenv("BOOKSTORE_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "环境变量优先于配置文件")
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "debug"},
			Database: DatabaseConfig{Driver: DriverMySQL},
			JWT:      JWTConfig{Secret: "s"},
		}
	}

	t.Run("合法配置", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("未知驱动", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "oracle"
		assert.Error(t, validate(cfg))
	})

	t.Run("生产环境使用默认密钥", func(t *testing.T) {
		cfg := base()
		cfg.Server.Mode = "release"
		cfg.JWT.Secret = defaultJWTSecret
		assert.Error(t, validate(cfg))
	})

	t.Run("非法端口", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 70000
		assert.Error(t, validate(cfg))
	})
}
