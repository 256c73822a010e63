// internal/commands/root.go
package eikon

import (
	"fmt"
	"os"

	"github.com/eikonbench/eikon/internal/appconfig"
	"github.com/eikonbench/eikon/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eikon",
	Short: "eikon — benchmark text-to-image diffusion acceleration configurations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadMergedConfig()
		if err != nil {
			return err
		}
		currentConfig = cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("export", "", "write the final report to this JSON file")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("export", rootCmd.PersistentFlags().Lookup("export"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadMergedConfig materializes the configuration snapshot other packages
// consume: the validated config file parsed by appconfig.Load, overridden by
// any flags that were set (flags > config > defaults). viper locates the file
// and merges the flag bindings; appconfig.Load owns the struct mapping.
func loadMergedConfig() (*appconfig.Config, error) {
	var cfg appconfig.Config

	if err := viper.ReadInConfig(); err == nil {
		loaded, err := appconfig.Load(viper.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Debug = viper.GetBool("debug")
	if export := viper.GetString("export"); export != "" {
		cfg.Export = export
	}
	if logFile := viper.GetString("logFile"); logFile != "" {
		cfg.LogFile = logFile
	}
	return &cfg, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
