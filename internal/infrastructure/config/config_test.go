package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "ejournal-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 50.0, cfg.Engine.BoundaryToleranceM)
	assert.Equal(t, 10.0, cfg.Engine.AccuracyCeilingM)
	assert.Equal(t, 30.0, cfg.Engine.RelaxedAccuracyCeilingM)
	assert.Equal(t, 5*time.Minute, cfg.Engine.ProofMaxAge)
	assert.Equal(t, 15*time.Minute, cfg.Engine.GraceWindow)
	assert.Equal(t, 300*time.Millisecond, cfg.Engine.LockWait)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.SweepInterval)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults validate", func(t *testing.T) {
		require.NoError(t, valid().validate())
	})

	t.Run("idle conns exceed open conns", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("relaxed ceiling below strict ceiling", func(t *testing.T) {
		cfg := valid()
		cfg.Engine.RelaxedAccuracyCeilingM = 5
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires password", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.SSLMode = "require"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "ejournal",
		Password: "p@ss/word",
		DBName:   "ejournal",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word") // escaped
}
