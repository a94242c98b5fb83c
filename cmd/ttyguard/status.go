package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kioskops/ttyguard/internal/config"
	"github.com/kioskops/ttyguard/internal/logging"
	"github.com/kioskops/ttyguard/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend availability, kiosk account, and current logins",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logging.InitWithWriter(cfg.LogLevel, os.Stderr)

		backends, err := session.DefaultBackends()
		if err != nil {
			fmt.Printf("system bus:  unreachable (%v)\n", err)
		} else {
			avail := session.Probe(backends)
			fmt.Printf("consolekit:  %s\n", availWord(avail.ConsoleKit))
			fmt.Printf("logind:      %s\n", availWord(avail.Logind))
		}

		kiosk, err := session.LookupKioskUser(cfg.KioskUser)
		switch {
		case err != nil:
			fmt.Printf("kiosk user:  %s (lookup failed: %v)\n", cfg.KioskUser, err)
		case kiosk == nil:
			fmt.Printf("kiosk user:  %s (no such account)\n", cfg.KioskUser)
		default:
			fmt.Printf("kiosk user:  %s (uid %d)\n", kiosk.Name, kiosk.UID)
		}

		users, err := host.Users()
		if err != nil {
			fmt.Printf("logins:      unavailable (%v)\n", err)
			return nil
		}
		fmt.Printf("logins:      %d\n", len(users))
		for _, u := range users {
			started := time.Unix(int64(u.Started), 0).Format(time.RFC3339)
			fmt.Printf("  %-12s %-10s %s\n", u.User, u.Terminal, started)
		}
		return nil
	},
}

var sessionsYAML bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List candidate sessions from the live session backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logging.InitWithWriter(cfg.LogLevel, os.Stderr)

		backends, err := session.DefaultBackends()
		if err != nil {
			return fmt.Errorf("system bus: %w", err)
		}

		kiosk, err := session.LookupKioskUser(cfg.KioskUser)
		if err != nil {
			return err
		}

		var live session.Backend
		for _, b := range backends {
			if b.Available() {
				live = b
				break
			}
		}
		if live == nil {
			fmt.Println("no session backend reachable")
			return nil
		}

		sessions, err := live.Candidates(kiosk)
		if err != nil {
			return fmt.Errorf("%s: %w", live.Kind(), err)
		}

		if sessionsYAML {
			out, err := yaml.Marshal(sessions)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		}

		fmt.Printf("backend: %s\n", live.Kind())
		for _, s := range sessions {
			fmt.Printf("  %-10s user=%s(%d) seat=%s display=%s vt=%d local=%v graphical=%v\n",
				s.ID, s.User, s.UID, s.Seat, s.Display, s.VT, s.Local, s.Graphical)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsYAML, "yaml", false, "emit sessions as YAML")
}

func availWord(ok bool) string {
	if ok {
		return "available"
	}
	return "not reachable"
}
