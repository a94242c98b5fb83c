package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// DebugEnv, when set to the literal value "1", mirrors log output to stderr
// in addition to syslog.
const DebugEnv = "TTYGUARD_DEBUG"

type Config struct {
	// KioskUser is the well-known account whose graphical session is
	// preferred when activating. An account that does not exist is a
	// valid configuration, not an error.
	KioskUser string `mapstructure:"kiosk_user"`

	// MarkerFile records the VT number of a kiosk session that session
	// discovery may have missed. Consulted only by the fallback path.
	MarkerFile string `mapstructure:"marker_file"`

	// ChvtPath is the console-switch command. Resolved via PATH when not
	// absolute.
	ChvtPath string `mapstructure:"chvt_path"`

	// DisplayServers are process names the fallback scans for when no
	// session backend yields a session.
	DisplayServers []string `mapstructure:"display_servers"`

	// RetryDelaySeconds is the pause at the end of each guard cycle.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds"`

	// TermType is the terminfo entry used to resolve the clear-screen
	// sequence for the guarded device. Virtual consoles are "linux".
	TermType string `mapstructure:"term_type"`

	LogLevel string `mapstructure:"log_level"`
}

func Default() *Config {
	return &Config{
		KioskUser:         "kiosk",
		MarkerFile:        "/run/ttyguard/session-vt",
		ChvtPath:          "chvt",
		DisplayServers:    []string{"Xorg", "X"},
		RetryDelaySeconds: 10,
		TermType:          "linux",
		LogLevel:          "info",
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ttyguard")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TTYGUARD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Retry returns the per-cycle delay, guarding against nonsense values.
func (c *Config) Retry() int {
	if c.RetryDelaySeconds <= 0 {
		return 10
	}
	return c.RetryDelaySeconds
}

func configDir() string {
	return filepath.Join("/etc", "ttyguard")
}
