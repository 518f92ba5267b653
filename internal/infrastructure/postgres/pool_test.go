package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/student-manager/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		AppName:       "student-manager",
		DatabaseURL:   "postgres://app:pw@db.internal:5432/students?sslmode=disable",
		DBMaxConns:    7,
		DBMinConns:    1,
		DBMaxConnLife: 30 * time.Minute,
	}

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, "students", pc.ConnConfig.Database)
	assert.Equal(t, "UTC", pc.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "student-manager", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_BadDSN(t *testing.T) {
	_, err := PoolConfig(&config.Config{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
