package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var verbose bool
var logger *zap.SugaredLogger
var resultsDir string
var databasePath string
var noDatabase bool

var rootCmd = &cobra.Command{
	Use:   "dago",
	Short: "Bulk health reconnaissance for .lt domains",
	Long: `dago scans lists of .lt domains through layered check profiles:
registration status via the registry DAS service, connectivity, and a
configurable analysis suite (DNS, TLS, redirects, robots, sitemaps).
Results are persisted locally and exportable as JSON or CSV.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".dago")
			viper.SetConfigType("yaml")
		}

		_ = viper.ReadInConfig()
		applyConfigDefaults(cmd)

		if resultsDir == "" {
			resultsDir = viper.GetString("results_dir")
		}
		if resultsDir == "" {
			resultsDir = "./results"
		}
		if abs, err := filepath.Abs(resultsDir); err == nil {
			resultsDir = abs
		}

		if databasePath == "" {
			databasePath = viper.GetString("database")
		}
		if databasePath == "" {
			databasePath = filepath.Join(resultsDir, "dago.db")
		}

		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l.Sugar()
		return nil
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dago.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (development) logging")
	rootCmd.PersistentFlags().StringVar(&resultsDir, "results-dir", "", "directory for exported results (default ./results)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to the SQLite database (default <results-dir>/dago.db)")
	rootCmd.PersistentFlags().BoolVar(&noDatabase, "no-db", false, "disable result persistence")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(versionCmd)
}
