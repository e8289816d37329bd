package collector

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mdlayher/wifi"
	log "github.com/sirupsen/logrus"

	"wifisnap/internal/band"
	"wifisnap/internal/model"
)

type wifiClient interface {
	Interfaces() ([]*wifi.Interface, error)
	BSS(ifi *wifi.Interface) (*wifi.BSS, error)
	StationInfo(ifi *wifi.Interface) ([]*wifi.StationInfo, error)
	Close() error
}

// Netlink reads link state over nl80211. Scans and noise readings go through
// Tool, as the nl80211 client exposes neither.
type Netlink struct {
	IfName string
	Tool   *IW

	newClient func() (wifiClient, error)
}

func NewNetlink(ifname string) *Netlink {
	return &Netlink{
		IfName: ifname,
		Tool:   NewIW(ifname),
		newClient: func() (wifiClient, error) {
			return wifi.New()
		},
	}
}

func (n *Netlink) Interface(ctx context.Context) (*model.InterfaceState, error) {
	c, err := n.newClient()
	if err != nil {
		return nil, fmt.Errorf("nl80211: %w", err)
	}
	defer c.Close()

	ifi, err := n.pick(c)
	if err != nil || ifi == nil {
		return nil, err
	}

	state := &model.InterfaceState{IfName: ifi.Name}
	associated := false

	bss, err := c.BSS(ifi)
	switch {
	case err == nil:
		associated = true
		if bss.SSID != "" {
			ssid := bss.SSID
			state.SSID = &ssid
		}
		state.Channel = band.FromFrequency(bss.Frequency)
	case errors.Is(err, os.ErrNotExist):
	default:
		log.WithError(err).WithField("ifname", ifi.Name).Debug("read BSS failed")
	}
	if associated && state.Channel == nil && ifi.Frequency != 0 {
		state.Channel = band.FromFrequency(ifi.Frequency)
	}

	if associated {
		stations, err := c.StationInfo(ifi)
		if err != nil {
			log.WithError(err).WithField("ifname", ifi.Name).Debug("read station info failed")
		} else if len(stations) > 0 {
			state.SignalDBM = stations[0].Signal
			state.TxMbps = float64(stations[0].TransmitBitrate) / 1e6
		}
		if n.Tool != nil {
			if noise, ok := n.Tool.noise(ctx, ifi.Name); ok {
				state.NoiseDBM = noise
			}
		}
	}
	return state, nil
}

func (n *Netlink) Scan(ctx context.Context) ([]model.ScanEntry, error) {
	if n.Tool == nil {
		return nil, ErrScanUnsupported
	}

	c, err := n.newClient()
	if err != nil {
		return nil, fmt.Errorf("nl80211: %w", err)
	}
	ifi, err := n.pick(c)
	c.Close()
	if err != nil {
		return nil, err
	}
	if ifi == nil {
		return nil, fmt.Errorf("nl80211 scan: no interface")
	}
	return n.Tool.scanInterface(ctx, ifi.Name)
}

// pick returns the configured interface or the first named station interface.
func (n *Netlink) pick(c wifiClient) (*wifi.Interface, error) {
	ifis, err := c.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("nl80211 interfaces: %w", err)
	}
	for _, ifi := range ifis {
		if ifi.Name == "" {
			continue
		}
		if n.IfName != "" {
			if ifi.Name == n.IfName {
				return ifi, nil
			}
			continue
		}
		if ifi.Type == wifi.InterfaceTypeStation {
			return ifi, nil
		}
	}
	return nil, nil
}
