package collector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"wifisnap/internal/band"
	"wifisnap/internal/model"
)

var ErrScanUnsupported = errors.New("scan not supported by backend")

// Service is the host's wireless query service. Interface returns a nil state
// when no wireless interface is present.
type Service interface {
	Interface(ctx context.Context) (*model.InterfaceState, error)
	Scan(ctx context.Context) ([]model.ScanEntry, error)
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// IW queries the kernel through the iw(8) command line tool.
type IW struct {
	IfName string

	run runFunc
}

func NewIW(ifname string) *IW {
	return &IW{IfName: ifname, run: execRun}
}

func (c *IW) Interface(ctx context.Context) (*model.InterfaceState, error) {
	ifname, err := c.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if ifname == "" {
		return nil, nil
	}

	out, err := c.exec(ctx, "iw", "dev", ifname, "link")
	if err != nil {
		return nil, fmt.Errorf("iw link: %w", err)
	}
	state, connected, err := ParseLinkOutput(out, ifname)
	if err != nil {
		return nil, err
	}
	if connected {
		if noise, ok := c.noise(ctx, ifname); ok {
			state.NoiseDBM = noise
		}
	}
	return &state, nil
}

func (c *IW) Scan(ctx context.Context) ([]model.ScanEntry, error) {
	ifname, err := c.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if ifname == "" {
		return nil, fmt.Errorf("iw scan: no interface")
	}
	return c.scanInterface(ctx, ifname)
}

// resolve picks the configured interface, or the first one iw reports.
// An empty name with a nil error means there is no interface.
func (c *IW) resolve(ctx context.Context) (string, error) {
	ifs, err := c.listInterfaces(ctx)
	if err != nil {
		return "", err
	}
	if c.IfName == "" {
		if len(ifs) == 0 {
			return "", nil
		}
		return ifs[0], nil
	}
	for _, name := range ifs {
		if name == c.IfName {
			return name, nil
		}
	}
	return "", nil
}

func (c *IW) listInterfaces(ctx context.Context) ([]string, error) {
	out, err := c.exec(ctx, "iw", "dev")
	if err != nil {
		return nil, fmt.Errorf("iw dev: %w", err)
	}
	return ParseDevOutput(out)
}

func (c *IW) noise(ctx context.Context, ifname string) (int, bool) {
	return c.survey(ctx, ifname).Current()
}

// survey is best effort: a failed dump yields an empty survey.
func (c *IW) survey(ctx context.Context, ifname string) Survey {
	out, err := c.exec(ctx, "iw", "dev", ifname, "survey", "dump")
	if err != nil {
		log.WithError(err).WithField("ifname", ifname).Debug("survey dump failed")
		return Survey{}
	}
	return ParseSurveyOutput(out)
}

func (c *IW) exec(ctx context.Context, name string, args ...string) ([]byte, error) {
	run := c.run
	if run == nil {
		run = execRun
	}
	return run(ctx, name, args...)
}

func ParseDevOutput(out []byte) ([]string, error) {
	var ifs []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Interface ") {
			name := strings.TrimSpace(strings.TrimPrefix(line, "Interface "))
			if name != "" {
				ifs = append(ifs, name)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan interfaces: %w", err)
	}
	return ifs, nil
}

// ParseLinkOutput reads `iw dev <if> link`. The bool reports whether the
// interface is associated.
func ParseLinkOutput(out []byte, ifname string) (model.InterfaceState, bool, error) {
	state := model.InterfaceState{IfName: ifname}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	connected := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, "Not connected") {
			return model.InterfaceState{IfName: ifname}, false, nil
		}
		if strings.HasPrefix(line, "Connected to ") {
			connected = true
			continue
		}
		if strings.HasPrefix(line, "SSID:") {
			if ssid := parseSSIDLine(line); ssid != "" {
				state.SSID = &ssid
			}
			continue
		}
		if strings.HasPrefix(line, "freq:") {
			if v, ok := parseFreq(line); ok {
				state.Channel = band.FromFrequency(v)
			}
			continue
		}
		if strings.HasPrefix(line, "signal:") {
			if v, ok := parseSignal(line); ok {
				state.SignalDBM = v
			}
			continue
		}
		if strings.HasPrefix(line, "tx bitrate:") {
			if v, ok := parseBitrate(line); ok {
				state.TxMbps = v
			}
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return model.InterfaceState{}, false, fmt.Errorf("scan iw output: %w", err)
	}
	if !connected {
		return model.InterfaceState{IfName: ifname}, false, nil
	}
	return state, true, nil
}

// Survey holds per-frequency noise floors from `iw dev <if> survey dump`.
type Survey struct {
	NoiseByFreq map[int]int
	// InUse is the frequency marked [in use], 0 if none.
	InUse int
}

// Current returns the noise floor of the frequency in use.
func (s Survey) Current() (int, bool) {
	if s.InUse == 0 {
		return 0, false
	}
	noise, ok := s.NoiseByFreq[s.InUse]
	return noise, ok
}

func (s Survey) Noise(freq int) (int, bool) {
	noise, ok := s.NoiseByFreq[freq]
	return noise, ok
}

func ParseSurveyOutput(out []byte) Survey {
	survey := Survey{NoiseByFreq: make(map[int]int)}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	freq := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Survey data from"):
			freq = 0
		case strings.HasPrefix(line, "frequency:"):
			freq = 0
			if v, ok := parseFreq(line); ok {
				freq = v
				if strings.Contains(line, "[in use]") {
					survey.InUse = v
				}
			}
		case freq != 0 && strings.HasPrefix(line, "noise:"):
			if v, ok := parseSignal(line); ok {
				survey.NoiseByFreq[freq] = v
			}
		}
	}
	return survey
}

func parseFreq(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(v)), true
}

func parseBitrate(line string) (float64, bool) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields)-1; i++ {
		if strings.HasSuffix(fields[i], "bitrate:") {
			if v, err := strconv.ParseFloat(fields[i+1], 64); err == nil {
				return v, true
			}
			break
		}
	}
	return 0, false
}
