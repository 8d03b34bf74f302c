package simulation

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	seedEnvKey = "SIMULATION_SEED"

	// DefaultSeed keeps reference runs reproducible.
	DefaultSeed int64 = 42

	referenceDays            = 7
	referenceIntervalMinutes = 15
)

// ReferenceWindow is the fixed simulation period: seven days from
// 2025-10-01 00:00 UTC sampled every 15 minutes.
func ReferenceWindow() Window {
	start := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	return Window{
		Start:           start,
		End:             start.AddDate(0, 0, referenceDays),
		IntervalMinutes: referenceIntervalMinutes,
	}
}

// SeedFromEnv reads the environment variable and falls back to DefaultSeed.
func SeedFromEnv(log *zap.Logger) int64 {
	return SeedFromString(os.Getenv(seedEnvKey), log)
}

// SeedFromString parses a seed with fallback to DefaultSeed.
func SeedFromString(raw string, log *zap.Logger) int64 {
	if log == nil {
		log = zap.NewNop()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSeed
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warn("invalid seed, using default",
			zap.String("key", seedEnvKey),
			zap.String("value", raw),
			zap.Int64("default", DefaultSeed),
			zap.Error(err),
		)
		return DefaultSeed
	}
	return seed
}
