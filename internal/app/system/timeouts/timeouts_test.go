package timeouts_test

import (
	"testing"
	"time"

	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
)

func TestConfigure_ZeroValuesKeepCurrent(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Long: time.Minute})

	if got := timeouts.Long(); got != time.Minute {
		t.Errorf("Long = %v, want 1m", got)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium = %v, want default %v", got, timeouts.DefaultMedium)
	}
	if got := timeouts.Ping(); got != timeouts.DefaultPing {
		t.Errorf("Ping = %v, want default %v", got, timeouts.DefaultPing)
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	timeouts.Configure(timeouts.Config{
		Ping:   time.Second,
		Short:  time.Second,
		Medium: time.Second,
		Long:   time.Second,
	})
	timeouts.Reset()

	if timeouts.Ping() != timeouts.DefaultPing ||
		timeouts.Short() != timeouts.DefaultShort ||
		timeouts.Medium() != timeouts.DefaultMedium ||
		timeouts.Long() != timeouts.DefaultLong {
		t.Error("Reset should restore every default")
	}
}
