// Package camera proxies a UniFi Protect console. The integration is
// best effort: status and listing degrade instead of failing, and only
// snapshots report errors to the caller.
package camera

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atinyakov/homehub/internal/certgen"
	"go.uber.org/zap"
)

// Errors returned by Snapshot.
var (
	ErrNotConfigured = errors.New("camera integration not configured")
	ErrUnavailable   = errors.New("camera system unreachable")
)

// Camera is one device reported by the console.
type Camera struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	State       string `json:"state"`
	IsConnected bool   `json:"isConnected"`
}

// Status summarises the integration for GET /api/unifi/status.
type Status struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Host       string `json:"host"`
}

// Provider is the stable interface the HTTP layer depends on.
type Provider interface {
	// Status never fails; an unreachable console reports Connected=false.
	Status(ctx context.Context) Status
	// Cameras returns an empty slice when the console cannot be reached.
	Cameras(ctx context.Context) []Camera
	// Snapshot returns a JPEG image of the camera's current view.
	Snapshot(ctx context.Context, id string) ([]byte, error)
}

// Options selects and configures a Provider.
type Options struct {
	Mode      string
	Host      string
	APIKey    string
	ConsoleID string
	CAFile    string
	Insecure  bool
	Timeout   time.Duration
}

// Modes accepted by New.
const (
	ModeDisabled = "disabled"
	ModeLocal    = "local"
	ModeCloud    = "cloud"
)

const cloudHost = "api.ui.com"

// New builds the Provider for opts.Mode.
func New(opts Options, log *zap.Logger) (Provider, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	switch opts.Mode {
	case "", ModeDisabled:
		return Disabled{}, nil
	case ModeLocal:
		tlsCfg, err := certgen.ClientTLSConfig(opts.CAFile, opts.Insecure)
		if err != nil {
			return nil, fmt.Errorf("camera tls: %w", err)
		}
		client := &http.Client{
			Timeout:   opts.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}
		base := fmt.Sprintf("https://%s/proxy/protect/integration/v1", opts.Host)
		return NewProtectClient(base, opts.Host, opts.APIKey, client, log), nil
	case ModeCloud:
		client := &http.Client{Timeout: opts.Timeout}
		base := fmt.Sprintf("https://%s/v1/connector/consoles/%s/proxy/protect/integration/v1", cloudHost, opts.ConsoleID)
		return NewProtectClient(base, cloudHost, opts.APIKey, client, log), nil
	default:
		return nil, fmt.Errorf("unknown camera mode %q", opts.Mode)
	}
}

// Disabled is the Provider used when no console is configured.
type Disabled struct{}

func (Disabled) Status(context.Context) Status { return Status{} }

func (Disabled) Cameras(context.Context) []Camera { return []Camera{} }

func (Disabled) Snapshot(context.Context, string) ([]byte, error) {
	return nil, ErrNotConfigured
}
