package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifisnap/internal/model"
)

func TestWriteSingleLine(t *testing.T) {
	var buf bytes.Buffer
	snap := model.Snapshot{
		SignalDBM: -50,
		Channel:   6,
		Band:      "2.4 GHz",
		Networks:  []model.Network{{SSID: "Café & Bar", Band: "unknown"}},
	}

	require.NoError(t, Write(&buf, snap))
	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
	assert.Contains(t, out, `"ssid":null`)
	assert.Contains(t, out, `"ssid":"Café & Bar"`)
	assert.NotContains(t, out, "is_connected")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "No WiFi interface found"))
	assert.Equal(t, "{\"error\":\"No WiFi interface found\"}\n", buf.String())
}

func TestWriteEncodingFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, model.Snapshot{TxMbps: math.NaN()})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
