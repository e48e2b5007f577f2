package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	noColor    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "retailgen",
	Short: "Synthetic retail CRM dataset generator",
	Long: `A synthetic CRM dataset generator for an aroma-diffuser retailer.

This tool generates a product catalog, a customer base, and a time-ordered
stream of invoice line items driven by per-customer purchase journeys
(device adoption, refill habit, churn), writes everything to CSV, and
bulk-imports it into MariaDB/MySQL.

Tunable defaults live in internal/config/defaults.go; every value can be
overridden via a config file (retailgen.yaml) or RETAILGEN_* environment
variables.

Example usage:
  retailgen generate --customers 100000 --seed 42
  retailgen import --db "user:pass@tcp(host:3306)/crm"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./retailgen.yaml)")

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// initConfig wires viper to the optional config file and environment.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("retailgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("RETAILGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	if viper.GetBool("verbose") {
		verbose = true
	}
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}
