// Command termdeck builds flashcard decks from TermDat terminology searches.
// It runs either as an HTTP server holding interactive search sessions
// or as a one-shot exporter.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/config"
	logpkg "github.com/kailas-cloud/termdeck/internal/logger"
	"github.com/kailas-cloud/termdeck/internal/version"
)

const (
	envPrefix = "TERMDECK"
	keyEnv    = "env"
)

func main() {
	if err := newRootCmd(viper.New()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "termdeck",
		Short:         "Export TermDat terminology as flashcard decks",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.String("env", config.GetEnv(), "configuration environment (local, dev, prod)")
	flags.String("log-level", "", "log level override: debug, info, warn, error")
	flags.String("termdat-url", "", "terminology API base URL")
	flags.Int("page-size", 0, "search page size")
	flags.String("cache", "", "response cache driver: redis, none")
	flags.StringSlice("cache-addrs", nil, "cache server addresses")
	flags.StringP("source", "s", "", "source language code (DE, FR, IT, EN)")
	flags.StringSliceP("targets", "t", nil, "target language codes, comma separated or repeated")

	bindFlagToViper(v, keyEnv, flags.Lookup("env"))
	bindFlagToViper(v, config.KeyLogLevel, flags.Lookup("log-level"))
	bindFlagToViper(v, config.KeyTermdatBaseURL, flags.Lookup("termdat-url"))
	bindFlagToViper(v, config.KeyTermdatPageSize, flags.Lookup("page-size"))
	bindFlagToViper(v, config.KeyCacheDriver, flags.Lookup("cache"))
	bindFlagToViper(v, config.KeyCacheAddrs, flags.Lookup("cache-addrs"))
	bindFlagToViper(v, config.KeySource, flags.Lookup("source"))
	bindFlagToViper(v, config.KeyTargets, flags.Lookup("targets"))

	root.AddCommand(
		newServeCmd(v),
		newExportCmd(v),
		newCollectionsCmd(v),
		newLanguagesCmd(),
	)
	return root
}

func bindFlagToViper(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

// loadConfig reads the environment's YAML file and applies flag and TERMDECK_* overrides.
func loadConfig(v *viper.Viper) (config.Config, string, error) {
	env := v.GetString(keyEnv)
	if env == "" {
		env = config.GetEnv()
	}
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyOverrides(v)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, env, nil
}

// setup loads the configuration and builds the logger every command starts with.
func setup(v *viper.Viper) (config.Config, *zap.Logger, error) {
	cfg, env, err := loadConfig(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}
