package collector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"wifisnap/internal/band"
	"wifisnap/internal/model"
)

// scanInterface triggers a fresh scan and falls back to the kernel's cached
// results, since triggering needs CAP_NET_ADMIN.
func (c *IW) scanInterface(ctx context.Context, ifname string) ([]model.ScanEntry, error) {
	out, err := c.exec(ctx, "iw", "dev", ifname, "scan")
	if err != nil {
		log.WithError(err).WithField("ifname", ifname).Debug("scan trigger failed, reading cached results")
		cached, dumpErr := c.exec(ctx, "iw", "dev", ifname, "scan", "dump")
		if dumpErr != nil {
			return nil, fmt.Errorf("iw scan: %w", errors.Join(err, dumpErr))
		}
		out = cached
	}
	return ParseScanOutput(out, c.survey(ctx, ifname))
}

// ParseScanOutput reads `iw dev <if> scan` output. Each entry takes its noise
// floor from survey, keyed by the entry's frequency.
func ParseScanOutput(out []byte, survey Survey) ([]model.ScanEntry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	results := make([]model.ScanEntry, 0, 16)
	var current *model.ScanEntry

	flush := func() {
		if current == nil {
			return
		}
		results = append(results, *current)
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		// Headers start in column 0; the indented "BSS Load:" element does not.
		if strings.HasPrefix(raw, "BSS ") {
			flush()
			entry := model.ScanEntry{}
			if bssid := parseBSSIDLine(line); bssid != "" {
				entry.BSSID = &bssid
			}
			current = &entry
			continue
		}
		if current == nil {
			continue
		}
		if strings.HasPrefix(line, "freq:") {
			if v, ok := parseFreq(line); ok {
				current.Channel = band.FromFrequency(v)
				if noise, ok := survey.Noise(v); ok {
					current.NoiseDBM = noise
				}
			}
			continue
		}
		if strings.HasPrefix(line, "signal:") {
			if v, ok := parseSignal(line); ok {
				current.SignalDBM = &v
			}
			continue
		}
		if strings.HasPrefix(line, "SSID:") {
			if ssid := parseSSIDLine(line); ssid != "" {
				current.SSID = &ssid
			}
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan iw output: %w", err)
	}
	flush()
	return results, nil
}

// parseSSIDLine decodes an "SSID:" line. iw escapes non-printable bytes,
// backslashes and leading or trailing spaces as \xNN, so the trim only
// removes iw's own padding.
func parseSSIDLine(line string) string {
	return unescapeSSID(strings.TrimSpace(strings.TrimPrefix(line, "SSID:")))
}

func unescapeSSID(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if b, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				out = append(out, byte(b))
				i += 3
				continue
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func parseBSSIDLine(line string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "BSS "))
	if idx := strings.IndexAny(rest, " \t("); idx >= 0 {
		rest = rest[:idx]
	}
	return normalizeBSSID(rest)
}

func normalizeBSSID(bssid string) string {
	return strings.ToLower(strings.TrimSpace(bssid))
}

func parseSignal(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	val, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(val)), true
}
