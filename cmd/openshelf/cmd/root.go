// Package cmd provides the command structure for the openshelf CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openshelf/openshelf"
	"github.com/openshelf/openshelf/internal/providers"
	"github.com/openshelf/openshelf/pkg/logging"
	"github.com/openshelf/openshelf/pkg/lookup"
)

// Version carries build metadata into the root command.
type Version struct {
	Version string
	Commit  string
	Date    string
}

var rootCmd = &cobra.Command{
	Use:   "openshelf",
	Short: "Reconcile a personal book catalog against bibliographic sources",
	Long: `OpenShelf enriches and deduplicates a personal book catalog.

Lookups cascade over Open Library, Google Books, the Library of Congress,
and Wikidata; enrichment proposes field-level changes and patches the
catalog store with what you approve.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		configureLogging()
		return nil
	},
}

// Execute runs the CLI with the given arguments and build metadata.
func Execute(ctx context.Context, v Version) error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", v.Version, v.Commit, v.Date)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("store-url", "", "base URL of the catalog store API")
	flags.String("api-key", "", "API key for the catalog store")
	flags.String("providers", "", "path to a provider config file (YAML)")
	flags.Duration("timeout", 10*time.Second, "per-source call timeout")
	flags.Duration("delay", 200*time.Millisecond, "pause between source calls")
	flags.Bool("verbose", false, "enable debug logging")
}

// loadConfig wires flags, environment, and .env files into viper.
// Precedence: flags, then OPENSHELF_* environment, then .env.
func loadConfig(cmd *cobra.Command) error {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}

	viper.SetEnvPrefix("OPENSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return viper.BindPFlags(cmd.Flags())
}

func configureLogging() {
	if viper.GetBool("verbose") {
		_ = os.Setenv("LOG_LEVEL", "debug")
	}
	logging.SetDefault(logging.NewConsole())
}

// newClient builds the OpenShelf facade from the resolved configuration.
func newClient(extra ...openshelf.Option) (openshelf.OpenShelf, error) {
	opts := []openshelf.Option{
		openshelf.WithStore(viper.GetString("store-url"), viper.GetString("api-key")),
		openshelf.WithCallTimeout(viper.GetDuration("timeout")),
		openshelf.WithDelay(viper.GetDuration("delay")),
	}
	if path := viper.GetString("providers"); path != "" {
		opts = append(opts, openshelf.WithProviderConfig(path))
	}
	opts = append(opts, extra...)
	return openshelf.New(opts...)
}

// newOrchestrator builds the source cascade alone, for read-only commands
// that never touch the catalog store.
func newOrchestrator(progress lookup.ProgressFunc) (lookup.Orchestrator, error) {
	var (
		set []lookup.Provider
		err error
	)
	if path := viper.GetString("providers"); path != "" {
		set, err = providers.Load(path)
	} else {
		set, err = providers.Default()
	}
	if err != nil {
		return nil, err
	}
	return lookup.New(
		lookup.WithProviders(set...),
		lookup.WithCallTimeout(viper.GetDuration("timeout")),
		lookup.WithDelay(viper.GetDuration("delay")),
		lookup.WithProgress(progress),
	)
}
