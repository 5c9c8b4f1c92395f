package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"secretlens/internal/app"
	"secretlens/internal/config"
	"secretlens/internal/lens"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a LensApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Toggle", "Lens").
// The --verbose flag is applied on top of opts.
func newApp(cmd *cobra.Command, operation string, opts app.Options) (*app.LensApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := app.LoadConfig(defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	a, err := app.NewLensApp(cfg, operation, app.StdStreams(), opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:          "secretlens",
	Short:        "Encrypt and decrypt individual lines of text files",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.LoadConfig(defaults)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Marker:    %s\n", cfg.Marker)
		fmt.Printf("Engine:    %s\n", cfg.Engine.Type)
		fmt.Printf("History:   %s\n", cfg.History.Type)
		fmt.Printf("Languages: %s\n", strings.Join(cfg.Languages, ", "))
		return nil
	},
}

// toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle FILE",
	Short: "Encrypt or decrypt the selected lines of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawSelections, _ := cmd.Flags().GetStringSlice("select")
		var selections []lens.Selection
		for _, raw := range rawSelections {
			sel, err := app.ParseSelection(raw)
			if err != nil {
				return err
			}
			selections = append(selections, sel)
		}

		var line *int
		if cmd.Flags().Changed("line") {
			n, _ := cmd.Flags().GetInt("line")
			if n < 1 {
				return fmt.Errorf("invalid line %d: must be a positive number", n)
			}
			idx := n - 1
			line = &idx
		}

		a, err := newApp(cmd, "Toggle", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		result, err := a.Toggle(ctx, args[0], selections, line)
		if err != nil {
			return err
		}
		app.PrintToggleResult(os.Stdout, result)
		return nil
	},
}

// password command
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Check that a password can be entered for this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "SetPassword", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		return a.SetPassword(ctx)
	},
}

// lens command
var lensCmd = &cobra.Command{
	Use:   "lens FILE",
	Short: "Show decrypted previews of encrypted lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watchFlag, _ := cmd.Flags().GetBool("watch")

		a, err := newApp(cmd, "Lens", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		if !watchFlag {
			annotations, err := a.Lenses(args[0])
			if err != nil {
				return err
			}
			app.PrintLenses(os.Stdout, annotations)
			return nil
		}

		ctx, cancel := signalContext()
		defer cancel()

		return a.Watch(ctx, args[0], func(annotations []lens.Annotation) {
			fmt.Println("---")
			app.PrintLenses(os.Stdout, annotations)
		})
	},
}

// shell command
var shellCmd = &cobra.Command{
	Use:   "shell FILE",
	Short: "Edit a file interactively, entering the password once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Shell", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		return a.Shell(ctx, args[0])
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent line transforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory", app.Options{ReadOnlyHistory: true})
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(limit)
		if err != nil {
			return err
		}

		app.PrintHistory(os.Stdout, entries)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.Flags().StringSliceP("select", "s", nil, "Line or range to select, 1-based (e.g. 3 or 3:5); repeatable")
	toggleCmd.Flags().IntP("line", "l", 0, "Apply every selection to this 1-based line instead")
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(lensCmd)
	lensCmd.Flags().BoolP("watch", "w", false, "Re-render previews whenever the file changes")
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of transforms to show")
}
