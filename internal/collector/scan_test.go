package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifisnap/internal/model"
)

const scanOutput = `BSS 5C:A6:E6:AA:BB:CC(on wlp2s0) -- associated
	last seen: 412.100s [boottime]
	TSF: 1234567 usec (0d, 00:00:01)
	freq: 2437
	beacon interval: 100 TUs
	capability: ESS Privacy ShortSlotTime (0x0411)
	signal: -53.00 dBm
	last seen: 0 ms ago
	SSID: Home
	Supported rates: 1.0* 2.0* 5.5* 11.0* 6.0 9.0 12.0 18.0
	DS Parameter set: channel 6
	BSS Load:
		 * station count: 3
		 * channel utilisation: 40/255
BSS 10:20:30:40:50:60(on wlp2s0)
	freq: 5180.0
	signal: -71.00 dBm
	SSID: Office 5G
BSS 70:80:90:a0:b0:c0(on wlp2s0)
	freq: 2462
	SSID:
`

func TestParseScanOutput(t *testing.T) {
	entries, err := ParseScanOutput([]byte(scanOutput), Survey{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	home := entries[0]
	require.NotNil(t, home.BSSID)
	assert.Equal(t, "5c:a6:e6:aa:bb:cc", *home.BSSID)
	require.NotNil(t, home.SSID)
	assert.Equal(t, "Home", *home.SSID)
	require.NotNil(t, home.SignalDBM)
	assert.Equal(t, -53, *home.SignalDBM)
	assert.Equal(t, &model.Channel{Number: 6, Band: model.Band2GHz}, home.Channel)

	office := entries[1]
	require.NotNil(t, office.SSID)
	assert.Equal(t, "Office 5G", *office.SSID)
	assert.Equal(t, &model.Channel{Number: 36, Band: model.Band5GHz}, office.Channel)

	hidden := entries[2]
	assert.Nil(t, hidden.SSID)
	assert.Nil(t, hidden.SignalDBM)
	assert.Equal(t, 11, hidden.Channel.Number)
	assert.Zero(t, hidden.NoiseDBM)
}

func TestParseScanOutputEscapedSSID(t *testing.T) {
	out := `BSS 00:11:22:33:44:55(on wlan0)
	freq: 2412
	signal: -60.00 dBm
	SSID: Caf\xc3\xa9
BSS 00:11:22:33:44:66(on wlan0)
	freq: 2412
	signal: -61.00 dBm
	SSID: Lobby\x20
BSS 00:11:22:33:44:77(on wlan0)
	freq: 2412
	signal: -62.00 dBm
	SSID: back\x5cslash \xzz
`
	entries, err := ParseScanOutput([]byte(out), Survey{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.NotNil(t, entries[0].SSID)
	assert.Equal(t, "Café", *entries[0].SSID)
	require.NotNil(t, entries[1].SSID)
	assert.Equal(t, "Lobby ", *entries[1].SSID)
	require.NotNil(t, entries[2].SSID)
	assert.Equal(t, `back\slash \xzz`, *entries[2].SSID)
}

func TestParseScanOutputNoiseFromSurvey(t *testing.T) {
	survey := ParseSurveyOutput([]byte(surveyOutput + "Survey data from wlp2s0\n\tfrequency:\t5180 MHz\n\tnoise:\t-97 dBm\n"))

	entries, err := ParseScanOutput([]byte(scanOutput), survey)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, -92, entries[0].NoiseDBM)
	assert.Equal(t, -97, entries[1].NoiseDBM)
	// 2462 MHz was not surveyed.
	assert.Zero(t, entries[2].NoiseDBM)
}

func TestIWScanFillsNoise(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"iw dev":                    devOutput,
		"iw dev wlp2s0 scan":        scanOutput,
		"iw dev wlp2s0 survey dump": surveyOutput,
	}}

	entries, err := (&IW{run: r.run}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, -92, entries[0].NoiseDBM)
}

func TestParseScanOutputEmpty(t *testing.T) {
	entries, err := ParseScanOutput(nil, Survey{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIWScanFallsBackToDump(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{
			"iw dev":                  devOutput,
			"iw dev wlp2s0 scan dump": scanOutput,
		},
		errs: map[string]error{
			"iw dev wlp2s0 scan": errors.New("exit status 255"),
		},
	}

	entries, err := (&IW{run: r.run}).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestIWScanFailure(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{"iw dev": devOutput},
		errs: map[string]error{
			"iw dev wlp2s0 scan":      errors.New("exit status 255"),
			"iw dev wlp2s0 scan dump": errors.New("exit status 161"),
		},
	}

	entries, err := (&IW{run: r.run}).Scan(context.Background())
	assert.Error(t, err)
	assert.Nil(t, entries)
}
