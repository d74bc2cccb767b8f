package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"strings"

	"livebridge/internal/browser"
	"livebridge/internal/live"
	"livebridge/internal/logging"
	"livebridge/internal/services"
)

// DefaultCategory is assumed when a request does not name a browser
// category. The category is informational; resolution always targets the
// audio-effects tree.
const DefaultCategory = "audio_effects"

// CommandSender issues one command to the remote-control surface and returns
// the raw result payload.
type CommandSender interface {
	SendCommand(ctx context.Context, name string, params any) (json.RawMessage, error)
}

// AddDeviceRequest is the decoded body of an add-device call. TrackIndex is
// a pointer so an absent field is distinguishable from track zero.
type AddDeviceRequest struct {
	TrackIndex *int   `json:"track_index"`
	DeviceName string `json:"device_name"`
	Category   string `json:"category,omitempty"`
}

// Dispatcher validates requests, resolves device names to browser URIs, and
// forwards exactly one command per valid request.
type Dispatcher struct {
	sender CommandSender
	logger *slog.Logger
}

// NewDispatcher wires a dispatcher to the given command sender.
func NewDispatcher(sender CommandSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logging.NewComponentLogger(logger, "bridge"),
	}
}

// AddDevice loads the named device onto the requested track. The raw result
// from Live is returned unmodified. Validation failures never reach the
// remote; remote and transport failures are tagged for status mapping.
func (d *Dispatcher) AddDevice(ctx context.Context, req AddDeviceRequest) (json.RawMessage, error) {
	if req.TrackIndex == nil || strings.TrimSpace(req.DeviceName) == "" {
		return nil, services.Wrap(services.ErrValidation, "add device", "", "track_index and device_name required", nil)
	}

	category := req.Category
	if category == "" {
		category = DefaultCategory
	}

	// The raw name drives resolution; lookup is byte-exact.
	itemURI := browser.ResolveDeviceURI(req.DeviceName)
	ctx = services.WithCommand(ctx, live.CommandLoadBrowserItem)

	logging.WithContext(ctx, d.logger).Info("loading device",
		logging.String("device_name", req.DeviceName),
		logging.String("item_uri", itemURI),
		logging.Int("track_index", *req.TrackIndex),
		logging.String("category", category),
	)

	result, err := d.sender.SendCommand(ctx, live.CommandLoadBrowserItem, live.LoadBrowserItemParams{
		TrackIndex: *req.TrackIndex,
		ItemURI:    itemURI,
	})
	if err != nil {
		marker := services.ErrRemote
		if isTimeout(err) {
			marker = services.ErrTimeout
		}
		return nil, services.Wrap(marker, "add device", live.CommandLoadBrowserItem, "", err)
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
