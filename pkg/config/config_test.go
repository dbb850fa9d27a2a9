package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_BookingConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("BOOKING_REWARD_POINTS", "250")
	os.Setenv("BOOKING_DURATION_DAYS", "14")
	defer func() {
		os.Unsetenv("BOOKING_REWARD_POINTS")
		os.Unsetenv("BOOKING_DURATION_DAYS")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify booking config
	assert.Equal(t, 250, cfg.Booking.RewardPoints)
	assert.Equal(t, 14, cfg.Booking.DurationDays)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("BOOKING_REWARD_POINTS")
	os.Unsetenv("BOOKING_DURATION_DAYS")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, 100, cfg.Booking.RewardPoints)
	assert.Equal(t, 30, cfg.Booking.DurationDays)
	assert.Equal(t, 3, cfg.Booking.IDAllocationRetries)
	assert.Equal(t, "estatebook", cfg.Database.Database)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "estatebook",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=estatebook sslmode=require",
		cfg.DatabaseDSN(),
	)
}
