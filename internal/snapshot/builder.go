package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"wifisnap/internal/band"
	"wifisnap/internal/collector"
	"wifisnap/internal/model"
)

const (
	NoInterfaceMessage = "No WiFi interface found"

	// Scan entries within this many dB of the link signal, on the same
	// channel, are taken to be the associated network.
	connectedSignalTolerance = 5
	missingSignalDBM         = -100
)

var (
	ErrNoInterface = errors.New("no wifi interface")
	ErrScanFailed  = errors.New("scan failed")
)

type ScanFailurePolicy int

const (
	// DegradeToEmpty reports a failed scan as zero networks.
	DegradeToEmpty ScanFailurePolicy = iota
	// DegradeWithReason also records the failure in Snapshot.ScanError.
	DegradeWithReason
)

type Builder struct {
	Service collector.Service
	Policy  ScanFailurePolicy
}

func New(svc collector.Service) *Builder {
	return &Builder{Service: svc, Policy: DegradeToEmpty}
}

func (b *Builder) Build(ctx context.Context) (model.Snapshot, error) {
	state, err := b.Service.Interface(ctx)
	if err != nil {
		log.WithError(err).Debug("interface lookup failed")
	}
	if state == nil {
		return model.Snapshot{}, ErrNoInterface
	}

	snap := model.Snapshot{
		SignalDBM: state.SignalDBM,
		NoiseDBM:  state.NoiseDBM,
		Channel:   band.Number(state.Channel),
		TxMbps:    state.TxMbps,
		SSID:      state.SSID,
		Band:      band.Label(state.Channel),
		Networks:  make([]model.Network, 0),
	}

	entries, err := b.Service.Scan(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrScanFailed, err)
		log.WithError(err).Debug("reporting no networks")
		if b.Policy == DegradeWithReason {
			snap.ScanError = err.Error()
		}
		entries = nil
	}

	resolved := snap.SSID != nil
	for _, e := range entries {
		n := model.Network{
			SignalDBM: e.SignalDBM,
			NoiseDBM:  e.NoiseDBM,
			Channel:   band.Number(e.Channel),
			Band:      band.Label(e.Channel),
		}
		if e.SSID != nil {
			n.SSID = *e.SSID
		}
		if e.BSSID != nil {
			n.BSSID = *e.BSSID
		}

		if !resolved && matchesLink(state, e) {
			snap.SSID = e.SSID
			n.IsConnected = true
			resolved = true
		}
		snap.Networks = append(snap.Networks, n)
	}

	sort.SliceStable(snap.Networks, func(i, j int) bool {
		return signalOrMissing(snap.Networks[i].SignalDBM) > signalOrMissing(snap.Networks[j].SignalDBM)
	})
	return snap, nil
}

// matchesLink applies the associated-network heuristic: same channel number
// and a signal reading within tolerance of the link's. An unknown channel on
// either side never matches.
func matchesLink(state *model.InterfaceState, e model.ScanEntry) bool {
	if state.Channel == nil || e.Channel == nil || e.SignalDBM == nil {
		return false
	}
	if e.Channel.Number != state.Channel.Number {
		return false
	}
	diff := *e.SignalDBM - state.SignalDBM
	if diff < 0 {
		diff = -diff
	}
	return diff <= connectedSignalTolerance
}

func signalOrMissing(v *int) int {
	if v == nil {
		return missingSignalDBM
	}
	return *v
}
