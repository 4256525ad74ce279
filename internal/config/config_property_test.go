package config

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// durationEnvKeys lists all Config fields that are parsed as time.Duration.
var durationEnvKeys = []string{
	"READ_TIMEOUT",
	"WRITE_TIMEOUT",
	"IDLE_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
}

// genDurationString generates a valid Go duration string (e.g. "3s", "500ms", "2m").
func genDurationString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(t, "unit")
		val := rapid.IntRange(1, 600).Draw(t, "val")
		return fmt.Sprintf("%d%s", val, unit)
	})
}

func TestProperty_LoadParsesValidEnvironment(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		clearEnv(t)

		port := rapid.IntRange(1, 65535).Draw(rt, "port")
		level := rapid.SampledFrom([]string{"debug", "info", "warn", "error"}).Draw(rt, "level")
		pageLimit := rapid.IntRange(1, 200).Draw(rt, "pageLimit")

		t.Setenv("PORT", strconv.Itoa(port))
		t.Setenv("LOG_LEVEL", level)
		t.Setenv("TX_PAGE_LIMIT", strconv.Itoa(pageLimit))

		want := make(map[string]time.Duration)
		for _, key := range durationEnvKeys {
			s := genDurationString().Draw(rt, key)
			t.Setenv(key, s)
			d, err := time.ParseDuration(s)
			if err != nil {
				rt.Fatalf("generated invalid duration %q: %v", s, err)
			}
			want[key] = d
		}

		cfg, err := Load()
		if err != nil {
			rt.Fatalf("Load failed on valid environment: %v", err)
		}

		if cfg.Port != port {
			rt.Fatalf("Port = %d, want %d", cfg.Port, port)
		}
		if cfg.LogLevel != level {
			rt.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, level)
		}
		if cfg.TxPageLimit != pageLimit {
			rt.Fatalf("TxPageLimit = %d, want %d", cfg.TxPageLimit, pageLimit)
		}
		if cfg.ReadTimeout != want["READ_TIMEOUT"] {
			rt.Fatalf("ReadTimeout = %v, want %v", cfg.ReadTimeout, want["READ_TIMEOUT"])
		}
		if cfg.WriteTimeout != want["WRITE_TIMEOUT"] {
			rt.Fatalf("WriteTimeout = %v, want %v", cfg.WriteTimeout, want["WRITE_TIMEOUT"])
		}
		if cfg.IdleTimeout != want["IDLE_TIMEOUT"] {
			rt.Fatalf("IdleTimeout = %v, want %v", cfg.IdleTimeout, want["IDLE_TIMEOUT"])
		}
		if cfg.ShutdownTimeout != want["SHUTDOWN_TIMEOUT"] {
			rt.Fatalf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, want["SHUTDOWN_TIMEOUT"])
		}
	})
}
