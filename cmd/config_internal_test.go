package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestApplyIntDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", 0, "")

	var applied int
	applyIntDefault(flags, "timeout", 15, func(v int) {
		applied = v
	})
	if applied != 15 {
		t.Fatalf("expected setter to receive 15, got %d", applied)
	}

	// When flag already set, setter should not run.
	if err := flags.Set("timeout", "7"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	applied = 0
	applyIntDefault(flags, "timeout", 20, func(v int) {
		applied = v
	})
	if applied != 0 {
		t.Fatalf("setter should not run when flag overridden, got %d", applied)
	}
}

func TestLoadDefaultOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("defaults.timeout_secs", 25)
	viper.Set("defaults.assume_registered_on_error", false)
	viper.Set("das.server", "das.example.lt")
	viper.Set("das.rate_per_sec", 2.5)
	viper.Set("checks.robots.enabled", false)

	overrides := loadDefaultOverrides()

	if overrides.TimeoutSecs == nil || *overrides.TimeoutSecs != 25 {
		t.Errorf("TimeoutSecs = %v, want 25", overrides.TimeoutSecs)
	}
	if overrides.AssumeRegisteredOnError == nil || *overrides.AssumeRegisteredOnError {
		t.Errorf("AssumeRegisteredOnError = %v, want false", overrides.AssumeRegisteredOnError)
	}
	if overrides.DASServer != "das.example.lt" {
		t.Errorf("DASServer = %q", overrides.DASServer)
	}
	if overrides.DASRatePerSec == nil || *overrides.DASRatePerSec != 2.5 {
		t.Errorf("DASRatePerSec = %v, want 2.5", overrides.DASRatePerSec)
	}
	if enabled, ok := overrides.Checks["robots"]; !ok || enabled {
		t.Errorf("Checks[robots] = (%v, %v), want explicit false", enabled, ok)
	}
	if _, ok := overrides.Checks["ssl"]; ok {
		t.Error("unset check toggle should not appear in overrides")
	}
}

func TestCheckerConfigReflectsRuntime(t *testing.T) {
	saved := *cliConfig
	t.Cleanup(func() { *cliConfig = saved })

	cliConfig.Scan.TimeoutSecs = 3
	cliConfig.Scan.DAS.Server = "das.example.lt"
	cliConfig.Scan.DAS.RatePerSec = 1

	cfg := checkerConfig()
	if cfg.RequestTimeout.Seconds() != 3 {
		t.Errorf("RequestTimeout = %s, want 3s", cfg.RequestTimeout)
	}
	if cfg.DAS.Server != "das.example.lt" || cfg.DAS.RatePerSec != 1 {
		t.Errorf("DAS config = %+v", cfg.DAS)
	}
}
