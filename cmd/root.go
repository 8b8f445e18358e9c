package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roessland/runstreak/rs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	storePath string
	format    string
)

var rootCmd = &cobra.Command{
	Use:   "runstreak",
	Short: "Track a daily running streak from Runalyze",
	Long: `Runstreak checks Runalyze for a run today and records the day in a local streak file.

Run without a subcommand to check today. Log in once with 'runstreak login' and export
the printed token as RUNSTREAK_TOKENS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rs.Check(loadConfig(cmd))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Runalyze and print a session token",
	Long: `Log in to Runalyze and print a session token.

Credentials are read from RUNSTREAK_RUNALYZE_USERNAME and RUNSTREAK_RUNALYZE_PASSWORD,
or prompted for when unset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rs.Login(loadConfig(cmd))
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill <since>",
	Short: "Record every day from a start date through today",
	Long: `Record every day from a start date through today as a run day.

The start is a date like '2024-01-10' or a duration back from today like '30d', '2w', '6m' or '1y'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rs.Backfill(loadConfig(cmd), args[0])
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the recorded streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rs.Show(loadConfig(cmd), format)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Import a streak file in the old one-date-per-line layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rs.Migrate(loadConfig(cmd), args[0])
	},
}

// loadConfig gathers configuration from flags, viper and the environment
func loadConfig(cmd *cobra.Command) rs.Config {
	jsonMode, _ := cmd.Flags().GetBool("json")

	return rs.Config{
		StorePath:      getConfigValue(storePath, "store_path"),
		UTCOffsetHours: viper.GetInt("utc_offset_hours"),
		LockTimeout:    viper.GetDuration("lock_timeout"),
		BaseURL:        viper.GetString("base_url"),
		Username:       viper.GetString("username"),
		Password:       viper.GetString("password"),
		Tokens:         os.Getenv(rs.TokenEnvVar),
		JSONMode:       jsonMode,
	}
}

// getConfigValue returns the flag value if non-empty, otherwise returns the viper config value
func getConfigValue(flagValue, viperKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(viperKey)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Viper defaults
	viper.SetDefault("store_path", "~/.runstreak/streak.json")
	viper.SetDefault("utc_offset_hours", rs.DefaultUTCOffsetHours)
	viper.SetDefault("lock_timeout", "10s")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.runstreak/runstreak.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "Path to the streak file (default: ~/.runstreak/streak.json)")
	rootCmd.PersistentFlags().Bool("json", false, "Output structured JSON logs instead of interactive mode")

	showCmd.Flags().StringVar(&format, "format", rs.FormatTable, "Output format: table, json or yaml")

	// Bind environment variables
	viper.BindEnv("username", "RUNSTREAK_RUNALYZE_USERNAME")
	viper.BindEnv("password", "RUNSTREAK_RUNALYZE_PASSWORD")
	viper.BindEnv("store_path", "RUNSTREAK_STORE_PATH")
	viper.BindEnv("utc_offset_hours", "RUNSTREAK_UTC_OFFSET_HOURS")

	rootCmd.AddCommand(loginCmd, backfillCmd, showCmd, migrateCmd)
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in ~/.runstreak/ directory with name "runstreak" (without extension).
		viper.AddConfigPath(filepath.Join(home, ".runstreak"))
		viper.SetConfigName("runstreak")
		viper.SetConfigType("yaml")
	}

	// If a config file is found, read it in silently (logging is via LOG_LEVEL env var)
	viper.ReadInConfig()
}
