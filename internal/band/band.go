package band

import "wifisnap/internal/model"

const (
	Label2GHz    = "2.4 GHz"
	Label5GHz    = "5 GHz"
	Label6GHz    = "6 GHz"
	LabelUnknown = "unknown"
)

func Label(ch *model.Channel) string {
	if ch == nil {
		return LabelUnknown
	}
	switch ch.Band {
	case model.Band2GHz:
		return Label2GHz
	case model.Band5GHz:
		return Label5GHz
	case model.Band6GHz:
		return Label6GHz
	default:
		return LabelUnknown
	}
}

// FromFrequency maps a centre frequency in MHz to its 802.11 channel.
// It returns nil for frequencies outside the 2.4, 5 and 6 GHz bands.
func FromFrequency(mhz int) *model.Channel {
	switch {
	case mhz == 2484:
		return &model.Channel{Number: 14, Band: model.Band2GHz}
	case mhz >= 2412 && mhz <= 2472:
		return &model.Channel{Number: (mhz - 2407) / 5, Band: model.Band2GHz}
	case mhz >= 5150 && mhz <= 5895:
		return &model.Channel{Number: (mhz - 5000) / 5, Band: model.Band5GHz}
	case mhz == 5935:
		return &model.Channel{Number: 2, Band: model.Band6GHz}
	case mhz >= 5955 && mhz <= 7115:
		return &model.Channel{Number: (mhz - 5950) / 5, Band: model.Band6GHz}
	}
	return nil
}

// Number returns the channel number, or 0 when the channel is unknown.
func Number(ch *model.Channel) int {
	if ch == nil {
		return 0
	}
	return ch.Number
}
