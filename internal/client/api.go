package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/atinyakov/homehub/internal/camera"
	"github.com/atinyakov/homehub/internal/models"
)

const keyNote = "note"

// ImportResult mirrors the counts returned by the calendar import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodGet, "/health", nil)
	return err
}

// UpcomingPayments returns bills and subscriptions due within days. A
// non-positive days leaves the window to the server default.
func (c *Client) UpcomingPayments(ctx context.Context, days int) ([]models.UpcomingPayment, error) {
	key := keyUpcomingPayments
	if days > 0 {
		key = fmt.Sprintf("%s?days=%d", keyUpcomingPayments, days)
	}
	var payments []models.UpcomingPayment
	if err := c.cached(ctx, key, "/api/"+key, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Note returns the shared scratch pad.
func (c *Client) Note(ctx context.Context) (models.Note, error) {
	var note models.Note
	err := c.cached(ctx, keyNote, "/api/note", &note)
	return note, err
}

// UpdateNote replaces the scratch pad content.
func (c *Client) UpdateNote(ctx context.Context, content string) (models.Note, error) {
	var note models.Note
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/api/note", body, &note); err != nil {
		return note, err
	}
	c.cache.Invalidate(keyNote)
	return note, nil
}

// ImportCalendar asks the server to pull an iCalendar feed into kids events.
func (c *Client) ImportCalendar(ctx context.Context, feedURL string) (ImportResult, error) {
	var res ImportResult
	body := map[string]string{"url": feedURL}
	if err := c.do(ctx, http.MethodPost, "/api/kids-events/import", body, &res); err != nil {
		return res, err
	}
	c.cache.Invalidate(c.KidsEvents.Name())
	return res, nil
}

// ExportCalendar writes the kids events as an iCalendar document to w.
func (c *Client) ExportCalendar(ctx context.Context, w io.Writer) error {
	data, err := c.send(ctx, http.MethodGet, "/api/kids-events/calendar.ics", nil)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// CameraStatus reports the camera integration state.
func (c *Client) CameraStatus(ctx context.Context) (camera.Status, error) {
	var st camera.Status
	err := c.do(ctx, http.MethodGet, "/api/unifi/status", nil, &st)
	return st, err
}

// Cameras lists cameras known to the console.
func (c *Client) Cameras(ctx context.Context) ([]camera.Camera, error) {
	var cams []camera.Camera
	err := c.do(ctx, http.MethodGet, "/api/unifi/cameras", nil, &cams)
	return cams, err
}

// Snapshot downloads a JPEG from the camera with the given id.
func (c *Client) Snapshot(ctx context.Context, id string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, "/api/unifi/cameras/"+url.PathEscape(id)+"/snapshot", nil)
}

// Refresh drops every cached response.
func (c *Client) Refresh() {
	c.cache.Invalidate(
		c.Tasks.Name(), c.Bills.Name(), c.Subscriptions.Name(), c.Cars.Name(),
		c.CarServices.Name(), c.KidsEvents.Name(), c.Groceries.Name(),
		keyUpcomingPayments, keyNote,
	)
}
