package camera

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// maxSnapshotBytes is the largest snapshot served; bigger ones fail.
const maxSnapshotBytes = 10 << 20

// ProtectClient talks to the UniFi Protect integration API, either on the
// console itself or through the UniFi cloud connector.
type ProtectClient struct {
	baseURL string
	host    string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// NewProtectClient constructs a client for the API rooted at baseURL. host
// is only reported in Status.
func NewProtectClient(baseURL, host, apiKey string, client *http.Client, log *zap.Logger) *ProtectClient {
	return &ProtectClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		host:    host,
		apiKey:  apiKey,
		client:  client,
		log:     log,
	}
}

type protectCamera struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ModelKey string `json:"modelKey"`
	State    string `json:"state"`
}

// Status reports whether the console answers its info endpoint.
func (c *ProtectClient) Status(ctx context.Context) Status {
	st := Status{Configured: true, Host: c.host}
	resp, err := c.get(ctx, "/meta/info")
	if err != nil {
		c.log.Warn("camera status check failed", zap.Error(err))
		return st
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	st.Connected = true
	return st
}

// Cameras lists the console's cameras.
func (c *ProtectClient) Cameras(ctx context.Context) []Camera {
	resp, err := c.get(ctx, "/cameras")
	if err != nil {
		c.log.Warn("camera list failed", zap.Error(err))
		return []Camera{}
	}
	defer resp.Body.Close()

	var raw []protectCamera
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.log.Warn("camera list decode failed", zap.Error(err))
		return []Camera{}
	}

	cams := make([]Camera, 0, len(raw))
	for _, r := range raw {
		cams = append(cams, Camera{
			ID:          r.ID,
			Name:        r.Name,
			Type:        r.ModelKey,
			State:       r.State,
			IsConnected: strings.EqualFold(r.State, "CONNECTED"),
		})
	}
	return cams
}

// Snapshot fetches a JPEG still. Any failure is reported as ErrUnavailable.
func (c *ProtectClient) Snapshot(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.get(ctx, "/cameras/"+url.PathEscape(id)+"/snapshot")
	if err != nil {
		c.log.Warn("camera snapshot failed", zap.String("camera", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot: %v", ErrUnavailable, err)
	}
	if len(img) > maxSnapshotBytes {
		c.log.Warn("camera snapshot too large", zap.String("camera", id))
		return nil, fmt.Errorf("%w: snapshot exceeds %d bytes", ErrUnavailable, maxSnapshotBytes)
	}
	return img, nil
}

// get issues an authenticated GET and fails on any non-200 status.
func (c *ProtectClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp, nil
}
