package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Debesyla/dago-domenai/internal/checker"
)

const defaultRequestTimeoutSecs = 10

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Scan     ScanRuntimeConfig
}

// DefaultValues are operator-level defaults, typically sourced from the
// config file.
type DefaultValues struct {
	TimeoutSecs             int
	AssumeRegisteredOnError bool
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	TimeoutSecs     int
	UserAgent       string
	RedirectMaxHops int
	DAS             DASRuntimeConfig
	Checks          map[string]bool
}

// DASRuntimeConfig groups registry availability-service options.
type DASRuntimeConfig struct {
	Server     string
	Port       int
	RatePerSec float64
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	base := checker.DefaultConfig()
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs:             defaultRequestTimeoutSecs,
			AssumeRegisteredOnError: true,
		},
		Scan: ScanRuntimeConfig{
			TimeoutSecs:     defaultRequestTimeoutSecs,
			UserAgent:       base.UserAgent,
			RedirectMaxHops: base.RedirectMaxHops,
			DAS: DASRuntimeConfig{
				Server:     base.DAS.Server,
				Port:       base.DAS.Port,
				RatePerSec: base.DAS.RatePerSec,
			},
			Checks: map[string]bool{},
		},
	}
}

// checkerConfig materializes the runtime settings into a checker config.
func checkerConfig() checker.Config {
	cfg := checker.DefaultConfig()
	cfg.RequestTimeout = time.Duration(cliConfig.Scan.TimeoutSecs) * time.Second
	cfg.UserAgent = cliConfig.Scan.UserAgent
	cfg.RedirectMaxHops = cliConfig.Scan.RedirectMaxHops
	cfg.DAS.Server = cliConfig.Scan.DAS.Server
	cfg.DAS.Port = cliConfig.Scan.DAS.Port
	cfg.DAS.RatePerSec = cliConfig.Scan.DAS.RatePerSec
	return cfg
}

type defaultOverrides struct {
	TimeoutSecs             *int
	AssumeRegisteredOnError *bool
	UserAgent               string
	RedirectMaxHops         *int
	DASServer               string
	DASPort                 *int
	DASRatePerSec           *float64
	Checks                  map[string]bool
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{Checks: map[string]bool{}}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.assume_registered_on_error") {
		val := viper.GetBool("defaults.assume_registered_on_error")
		overrides.AssumeRegisteredOnError = &val
	}

	if viper.IsSet("defaults.user_agent") {
		overrides.UserAgent = viper.GetString("defaults.user_agent")
	}

	if viper.IsSet("defaults.redirect_max_hops") {
		val := viper.GetInt("defaults.redirect_max_hops")
		overrides.RedirectMaxHops = &val
	}

	if viper.IsSet("das.server") {
		overrides.DASServer = viper.GetString("das.server")
	}
	if viper.IsSet("das.port") {
		val := viper.GetInt("das.port")
		overrides.DASPort = &val
	}
	if viper.IsSet("das.rate_per_sec") {
		val := viper.GetFloat64("das.rate_per_sec")
		overrides.DASRatePerSec = &val
	}

	// Legacy per-check toggles: checks.<name>.enabled.
	for _, name := range []string{"quick-whois", "whois", "dns", "status", "redirect", "robots", "sitemap", "ssl"} {
		key := "checks." + name + ".enabled"
		if viper.IsSet(key) {
			overrides.Checks[name] = viper.GetBool(key)
		}
	}

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config
// when the user did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()

	if overrides.TimeoutSecs != nil {
		applyIntDefault(scanCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Scan.TimeoutSecs = v
		})
	}

	if overrides.AssumeRegisteredOnError != nil {
		cliConfig.Defaults.AssumeRegisteredOnError = *overrides.AssumeRegisteredOnError
	}

	if overrides.UserAgent != "" {
		cliConfig.Scan.UserAgent = overrides.UserAgent
	}

	if overrides.RedirectMaxHops != nil {
		cliConfig.Scan.RedirectMaxHops = *overrides.RedirectMaxHops
	}

	if overrides.DASServer != "" {
		cliConfig.Scan.DAS.Server = overrides.DASServer
	}
	if overrides.DASPort != nil {
		cliConfig.Scan.DAS.Port = *overrides.DASPort
	}
	if overrides.DASRatePerSec != nil {
		cliConfig.Scan.DAS.RatePerSec = *overrides.DASRatePerSec
	}

	for name, enabled := range overrides.Checks {
		cliConfig.Scan.Checks[name] = enabled
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
