package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kioskops/ttyguard/internal/config"
	"github.com/kioskops/ttyguard/internal/console"
	"github.com/kioskops/ttyguard/internal/guard"
	"github.com/kioskops/ttyguard/internal/logging"
	"github.com/kioskops/ttyguard/internal/privilege"
	"github.com/kioskops/ttyguard/internal/session"
)

var (
	version = "0.1.0"
	cfgFile string
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "ttyguard [options] <device> [baud]",
	Short: "Console guard that redirects tty logins to the graphical session",
	Long: `ttyguard occupies a virtual console in place of a getty. Instead of
offering a login it switches the display back to the user's existing
graphical session, so consoles left open by terminal switching cannot
become login holes.

It accepts a getty-compatible invocation so the service manager can spawn
it from an unmodified getty unit: the usual short options are parsed and
ignored, and the device and baud rate may appear in either order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGuard(args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ttyguard v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/ttyguard/ttyguard.yaml)")

	// -h belongs to the getty option set (hardware flow control), so the
	// root command's help flag is registered long-only before cobra can
	// claim the shorthand.
	rootCmd.Flags().Bool("help", false, "help for ttyguard")
	gettyFlags(rootCmd.Flags())

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGuard(args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(cfg.LogLevel, os.Getenv(config.DebugEnv) == "1")

	device, err := deviceFromArgs(args)
	if err != nil {
		return err
	}

	if !privilege.IsRunningAsRoot() {
		log.Warn("not running as root, console switching will likely fail")
	}

	term, err := console.Open(device, cfg.TermType)
	if err != nil {
		return err
	}
	defer term.Close()

	backends, err := session.DefaultBackends()
	if err != nil {
		// No system bus means no backends; the fallback path still works.
		log.Warn("system bus unreachable, backends disabled", "error", err)
	}
	fallback := session.NewFallback(cfg.MarkerFile, cfg.DisplayServers, cfg.ChvtPath)
	locator := session.NewLocator(backends, fallback, cfg.KioskUser)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("guarding console", "device", term.Name(), "version", version)
	loop := guard.New(term, locator, time.Duration(cfg.Retry())*time.Second)
	err = loop.Run(ctx)
	log.Info("guard stopped", "reason", err)
	return nil
}
