// Package unifi is the REST client for a UniFi-style network controller.
// It covers the read-only monitoring endpoints plus the fixed-IP
// reservation write; session and cookie handling are the controller
// gateway's concern, authentication here is a static API key header.
package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/model"
)

const (
	defaultTimeout = 15 * time.Second
	maxAttempts    = 3
	retryBackoff   = 500 * time.Millisecond
)

// Client talks to one controller site.
type Client struct {
	baseURL string
	site    string
	apiKey  string
	http    *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithInsecureTLS skips certificate verification, for controllers with
// self-signed certificates.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a controller client for the given site.
func NewClient(baseURL, site, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		site:    site,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchClients returns the active client list.
func (c *Client) FetchClients(ctx context.Context) ([]model.Client, error) {
	var resp apiResponse[wireClient]
	if err := c.get(ctx, fmt.Sprintf("/proxy/network/api/s/%s/stat/sta", c.site), &resp); err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}

	clients := make([]model.Client, 0, len(resp.Data))
	for _, w := range resp.Data {
		clients = append(clients, convertClient(w))
	}
	log.Debug("Fetched clients from controller", "count", len(clients))
	return clients, nil
}

// FetchDevices returns the infrastructure device list.
func (c *Client) FetchDevices(ctx context.Context) ([]model.Device, error) {
	var resp apiResponse[wireDevice]
	if err := c.get(ctx, fmt.Sprintf("/proxy/network/api/s/%s/stat/device", c.site), &resp); err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}

	devices := make([]model.Device, 0, len(resp.Data))
	for _, w := range resp.Data {
		devices = append(devices, model.Device{
			MAC:        w.MAC,
			Name:       w.Name,
			Model:      w.Model,
			Type:       w.Type,
			IP:         w.IP,
			State:      w.State,
			Adopted:    w.Adopted,
			NumClients: w.NumSta,
		})
	}
	log.Debug("Fetched devices from controller", "count", len(devices))
	return devices, nil
}

// CommitReservation binds a fixed IP to a MAC address. The controller
// endpoint is a PUT keyed by MAC, so repeating the same commit is a no-op
// on its side.
func (c *Client) CommitReservation(ctx context.Context, mac, ip, hostname string) error {
	body := reservationRequest{
		MAC:        mac,
		UseFixedIP: true,
		FixedIP:    ip,
		Name:       hostname,
	}

	path := fmt.Sprintf("/proxy/network/api/s/%s/rest/user/%s", c.site, mac)
	if err := c.put(ctx, path, body); err != nil {
		return fmt.Errorf("committing reservation %s -> %s: %w", mac, ip, err)
	}

	log.Info("Reservation committed", "mac", mac, "ip", ip)
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, payload, nil)
}

// do issues the request with a bounded retry on transient failures. Retries
// are a loop, never recursion, and never apply to 4xx responses.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
			log.Debug("Retrying controller request", "method", method, "path", path, "attempt", attempt)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out != nil {
				if err := json.Unmarshal(data, out); err != nil {
					return fmt.Errorf("decoding controller response: %w", err)
				}
			}
			return nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("controller returned %d", resp.StatusCode)
			continue
		default:
			return fmt.Errorf("controller returned %d: %s", resp.StatusCode, string(data))
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func convertClient(w wireClient) model.Client {
	c := model.Client{
		MAC:       w.MAC,
		Name:      w.Name,
		Hostname:  w.Hostname,
		IP:        w.IP,
		Wired:     w.IsWired,
		Signal:    w.Signal,
		SSID:      w.ESSID,
		Radio:     w.Radio,
		TxBytes:   w.TxBytes,
		RxBytes:   w.RxBytes,
		TxPackets: w.TxPackets,
		RxPackets: w.RxPackets,
		Uptime:    w.Uptime,
		LastSeen:  w.LastSeen,
	}

	if w.IsWired {
		c.UplinkMAC = w.SwMAC
	} else {
		c.UplinkMAC = w.APMAC
	}

	// Metadata is modeled as present-or-absent, not zero values.
	if w.OSName != "" || w.DeviceModel != "" {
		c.Meta = &model.ClientMeta{OSName: w.OSName, DeviceModel: w.DeviceModel}
	}

	return c
}

// ResolveUplinks fills each client's uplink name from the device list.
// Descriptive only; classification and allocation never depend on it.
func ResolveUplinks(clients []model.Client, devices []model.Device) {
	names := make(map[string]string, len(devices))
	for i := range devices {
		names[devices[i].MAC] = devices[i].Name
	}
	for i := range clients {
		if name, ok := names[clients[i].UplinkMAC]; ok {
			clients[i].Uplink = name
		}
	}
}
