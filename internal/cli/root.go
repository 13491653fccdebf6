package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharonv/disclosq/internal/cache"
)

var (
	cfgFile string
	verbose bool

	// umbrellaCache memoizes umbrella-group loads for the lifetime of
	// the process, so repeated parser builds share one copy.
	umbrellaCache = cache.NewMemoryCache(time.Hour, 10*time.Minute)
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "disclosq",
	Short: "Disclosq - Hebrew query understanding for company disclosures",
	Long: `Disclosq converts free-text Hebrew queries about company disclosures
into structured filters: companies, report types, an optional result
limit and a resolved time window.

It is a query-understanding front end for a disclosure database; the
parse subcommand prints the structured filter, and can optionally run
it against a local SQLite disclosures database.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Disclosq.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("disclosq v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.disclosq/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.disclosq")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DISCLOSQ_*
	viper.SetEnvPrefix("DISCLOSQ")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
