package live

import "encoding/json"

// Command names understood by the remote-control surface.
const (
	CommandLoadBrowserItem = "load_browser_item"
)

// Response status values used by the remote-control protocol.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is the wire envelope for commands sent to Live.
type Request struct {
	Type   string `json:"type"`
	Params any    `json:"params,omitempty"`
}

// Response is the wire envelope for replies from Live. Result is kept raw so
// callers can pass it through without interpretation.
type Response struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// LoadBrowserItemParams are the parameters for the load_browser_item command.
type LoadBrowserItemParams struct {
	TrackIndex int    `json:"track_index"`
	ItemURI    string `json:"item_uri"`
}
