package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendNetlink = "netlink"
	BackendIW      = "iw"

	KeyInterface        = "interface"
	KeyBackend          = "backend"
	KeyLogLevel         = "log-level"
	KeyReportScanErrors = "report-scan-errors"

	envPrefix = "WIFISNAP"
)

type Config struct {
	// Interface is empty to pick the first station interface.
	Interface        string
	Backend          string
	LogLevel         log.Level
	ReportScanErrors bool
}

// New returns a viper instance with defaults and WIFISNAP_* environment
// lookup. Flags are bound onto it by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyInterface, "")
	v.SetDefault(KeyBackend, BackendNetlink)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyReportScanErrors, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func Load(v *viper.Viper) (*Config, error) {
	level, err := log.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend)))
	switch backend {
	case BackendNetlink, BackendIW:
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, BackendNetlink, BackendIW)
	}

	return &Config{
		Interface:        strings.TrimSpace(v.GetString(KeyInterface)),
		Backend:          backend,
		LogLevel:         level,
		ReportScanErrors: v.GetBool(KeyReportScanErrors),
	}, nil
}
