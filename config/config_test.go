package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_DB_PATH", "")
	t.Setenv("LOG_JSON", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "data/catalog.db", cfg.StoreDBPath)
	assert.False(t, cfg.LogJSON)
}

func TestLoadFirestoreNeedsProject(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Firestore")
	t.Setenv("FIRESTORE_PROJECT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIRESTORE_PROJECT_ID")

	t.Setenv("FIRESTORE_PROJECT_ID", "demo-catalog")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverFirestore, cfg.StoreDriver)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadLogJSON(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_JSON", "sometimes")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{StoreDriver: DriverMemory}
	assert.Error(t, cfg.ValidateBot())

	cfg.TelegramToken = "123:abc"
	assert.Error(t, cfg.ValidateBot())

	cfg.AdminPassword = "secret"
	assert.NoError(t, cfg.ValidateBot())
}
