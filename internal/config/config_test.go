package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Interface)
	assert.Equal(t, BackendNetlink, cfg.Backend)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
	assert.False(t, cfg.ReportScanErrors)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WIFISNAP_INTERFACE", "wlan1")
	t.Setenv("WIFISNAP_BACKEND", "IW")
	t.Setenv("WIFISNAP_LOG_LEVEL", "debug")
	t.Setenv("WIFISNAP_REPORT_SCAN_ERRORS", "true")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "wlan1", cfg.Interface)
	assert.Equal(t, BackendIW, cfg.Backend)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.ReportScanErrors)
}

func TestLoadOverridesEnv(t *testing.T) {
	t.Setenv("WIFISNAP_BACKEND", "iw")

	v := New()
	v.Set(KeyBackend, "netlink")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, BackendNetlink, cfg.Backend)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := New()
	v.Set(KeyBackend, "corewlan")
	_, err := Load(v)
	assert.ErrorContains(t, err, "unknown backend")

	v = New()
	v.Set(KeyLogLevel, "loud")
	_, err = Load(v)
	assert.ErrorContains(t, err, "log level")
}
