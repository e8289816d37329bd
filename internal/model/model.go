package model

type BandCategory int

const (
	BandUnknown BandCategory = iota
	Band2GHz
	Band5GHz
	Band6GHz
)

type Channel struct {
	Number int
	Band   BandCategory
}

// InterfaceState is what the wireless service reports for the associated link.
// SSID is nil when the name is withheld or the interface is idle.
type InterfaceState struct {
	IfName    string
	SignalDBM int
	NoiseDBM  int
	Channel   *Channel
	TxMbps    float64
	SSID      *string
}

// ScanEntry is one BSS seen during a scan pass. Nil fields were not reported.
type ScanEntry struct {
	SSID      *string
	BSSID     *string
	SignalDBM *int
	NoiseDBM  int
	Channel   *Channel
}

type Snapshot struct {
	SignalDBM int       `json:"rssi"`
	NoiseDBM  int       `json:"noise"`
	Channel   int       `json:"channel"`
	TxMbps    float64   `json:"tx_rate"`
	SSID      *string   `json:"ssid"`
	Band      string    `json:"band"`
	Networks  []Network `json:"networks"`
	ScanError string    `json:"scan_error,omitempty"`
}

type Network struct {
	SSID        string `json:"ssid"`
	BSSID       string `json:"bssid"`
	SignalDBM   *int   `json:"rssi"`
	NoiseDBM    int    `json:"noise"`
	Channel     int    `json:"channel"`
	Band        string `json:"band"`
	IsConnected bool   `json:"is_connected,omitempty"`
}

type ErrorDocument struct {
	Error string `json:"error"`
}
