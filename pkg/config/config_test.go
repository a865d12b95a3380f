package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "FIREBASE_CREDENTIALS_PATH", "POSTGRES_CONN_STR",
		"MONGO_URI", "MONGO_DB_NAME", "CLOUD_MEDIA_ENDPOINT", "ADMIN_USER_ID",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "brightstars", cfg.MongoDatabase)
	assert.Equal(t, uint(1), cfg.AdminUserID)
	assert.Empty(t, cfg.CloudMediaEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MONGO_DB_NAME", "engagement")
	t.Setenv("ADMIN_USER_ID", "42")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "engagement", cfg.MongoDatabase)
	assert.Equal(t, uint(42), cfg.AdminUserID)
}

func TestLoadBadAdminIDFallsBack(t *testing.T) {
	t.Setenv("ADMIN_USER_ID", "not-a-number")

	cfg := Load()
	assert.Equal(t, uint(1), cfg.AdminUserID)
}

func TestInitDBRequiresPostgresConnStr(t *testing.T) {
	_, err := InitDB(&Config{MongoURI: "mongodb://localhost"})
	assert.ErrorContains(t, err, "POSTGRES_CONN_STR")
}
