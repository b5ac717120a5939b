package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/rpccli/internal/catalog"
	"github.com/studiowebux/rpccli/internal/cli"
	"github.com/studiowebux/rpccli/internal/clipboard"
	"github.com/studiowebux/rpccli/internal/config"
	"github.com/studiowebux/rpccli/internal/history"
	"github.com/studiowebux/rpccli/internal/keybinds"
	"github.com/studiowebux/rpccli/internal/logging"
	"github.com/studiowebux/rpccli/internal/rpc"
	"github.com/studiowebux/rpccli/internal/tui"
	"github.com/studiowebux/rpccli/internal/version"
)

var (
	flagConfig  string
	flagAddress string
	flagVerbose bool

	flagBody    string
	flagHeaders []string
	flagQuery   string
	flagOutput  string
	flagFull    bool

	flagCheck bool

	flagDefaults   bool
	flagExportPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rpccli",
	Short: "RPC CLI - interactive client for JSON RPC services",
	Long: `RPC CLI is a terminal client for JSON RPC services with an interactive TUI.

Services and methods come from the catalogue files listed in the config.
Calls go over HTTP (Connect/Twirp style) or JSON-RPC 2.0 over WebSocket,
chosen by the address scheme.

Examples:
  rpccli                                   # Start interactive TUI
  rpccli -a ws://localhost:9000/rpc        # Override the default address
  rpccli call helloworld.Greeter/SayHello -d '{"name":"x"}'
  rpccli call shop.Orders/List --query 'orders[].id'
  rpccli keybinds export > ~/.rpccli/keybinds.json`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()
		return runTUI(cfg)
	},
}

var callCmd = &cobra.Command{
	Use:   "call [Service/Method]",
	Short: "Perform a single call and print the response",
	Long: `Perform a single call and print the response.

Without a method a picker opens when stdin is a terminal.
The body is the method template unless -d is given; -d @file reads a file
and -d - reads stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		opts := cli.CallOptions{
			Config:       cfg,
			Body:         flagBody,
			Headers:      flagHeaders,
			Query:        flagQuery,
			OutputFormat: flagOutput,
			ShowFull:     flagFull,
			Stdin:        cmd.InOrStdin(),
			Out:          cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.Method = args[0]
		}
		return cli.Call(opts)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		path := configPath()
		if _, err := os.Stat(config.ExpandPath(path)); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", path)
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Inspect and check key bindings",
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the effective key bindings as JSON",
	Long: `Print the effective key bindings as JSON.

With --defaults the built-in bindings are exported and the user file is
ignored. With --output the bindings are written to a file instead, ready to be
edited and referenced from the keybinds config entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var exported *keybinds.Config
		if flagDefaults {
			exported = keybinds.ExportDefaults()
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := keybinds.LoadOrDefault(config.ExpandPath(cfg.Keybinds))
			if err != nil {
				return err
			}
			exported = keybinds.Export(registry)
		}

		if flagExportPath != "" {
			path := config.ExpandPath(flagExportPath)
			if err := keybinds.SaveConfig(exported, path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		}

		data, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal key bindings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var keybindsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a keybinds.json file",
	Long: `Validate a keybinds.json file.

The overrides are checked on their own, then applied over the defaults and
checked again, so a file that leaves no key to exit insert mode is rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Keybinds
		}

		result, err := keybinds.CheckFile(config.ExpandPath(path))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		out := cmd.OutOrStdout()
		if !result.HasErrors() && !result.HasWarnings() {
			fmt.Fprintf(out, "%s: OK\n", path)
			return nil
		}
		fmt.Fprint(out, result.String())
		if result.HasErrors() {
			return fmt.Errorf("%s has invalid key bindings", path)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rpccli %s\n", version.Version)
		if !flagCheck {
			return nil
		}

		update, err := version.NewChecker().Check(cmd.Context(), version.Version)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if update.Available {
			fmt.Fprintf(out, "A newer version is available: %s\n%s\n", update.Latest, update.URL)
		} else {
			fmt.Fprintln(out, "Up to date")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ~/.rpccli/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagAddress, "address", "a", "", "Server address, overrides server.default_address")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")

	callCmd.Flags().StringVarP(&flagBody, "data", "d", "", "Request body, @file or - for stdin")
	callCmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", []string{}, "Metadata as key:value, can be repeated")
	callCmd.Flags().StringVar(&flagQuery, "query", "", "JMESPath query or $(command) applied to the response")
	callCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml)")
	callCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "Show full output (status, headers, body)")

	keybindsExportCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Export the built-in bindings, ignoring the user file")
	keybindsExportCmd.Flags().StringVarP(&flagExportPath, "output", "o", "", "Write the bindings to a file instead of stdout")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	configCmd.AddCommand(configInitCmd)
	keybindsCmd.AddCommand(keybindsExportCmd)
	keybindsCmd.AddCommand(keybindsValidateCmd)

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(versionCmd)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigFile
}

// loadConfig initializes the config directory and applies the global flags
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	if flagAddress != "" {
		cfg.Server.DefaultAddress = flagAddress
	}
	return cfg, nil
}

// setup loads the config and installs the file logger
func setup() (*config.Config, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if flagVerbose {
		level = slog.LevelDebug
	}
	closer, err := logging.Setup(cfg.LogFile(), level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	slog.Info("starting", "version", version.Version, "config", configPath())
	return cfg, closer, nil
}

func runTUI(cfg *config.Config) error {
	cat, err := catalog.Load(cfg.CatalogFiles(), cfg.IncludeDirs())
	if err != nil && !errors.Is(err, catalog.ErrNoServices) {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	store, err := history.Open(cfg.HistoryDatabase(), cfg.History.Disabled)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	registry, err := keybinds.LoadOrDefault(config.ExpandPath(cfg.Keybinds))
	if err != nil {
		return err
	}

	client, err := rpc.NewTransport(rpc.Options{
		Timeout:  cfg.Server.Timeout,
		CACert:   config.ExpandPath(cfg.TLS.CustomCert),
		Insecure: cfg.TLS.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	return tui.Run(tui.Options{
		Config:    cfg,
		Catalog:   cat,
		Client:    client,
		History:   store,
		Keys:      registry,
		Clipboard: clipboard.NewSystem(),
	})
}
