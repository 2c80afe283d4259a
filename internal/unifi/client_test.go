package unifi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/martinsuchenak/netorg/internal/model"
)

func TestFetchClients(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		io.WriteString(w, `{"data": [
			{"_id": "1", "mac": "00:11:32:aa:bb:01", "name": "nas-backup", "ip": "192.168.1.77",
			 "is_wired": true, "sw_mac": "aa:aa:aa:00:00:01", "tx_bytes": 100, "rx_bytes": 200,
			 "os_name": "Linux"},
			{"_id": "2", "mac": "de:ad:be:ef:00:02", "hostname": "phone", "ip": "192.168.1.88",
			 "is_wired": false, "signal": -58, "essid": "HomeNet", "ap_mac": "aa:aa:aa:00:00:02"}
		]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	clients, err := c.FetchClients(context.Background())
	if err != nil {
		t.Fatalf("FetchClients() error = %v", err)
	}

	if gotPath != "/proxy/network/api/s/default/stat/sta" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("Expected API key header, got %q", gotKey)
	}
	if len(clients) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(clients))
	}

	nas := clients[0]
	if nas.Name != "nas-backup" || !nas.Wired || nas.UplinkMAC != "aa:aa:aa:00:00:01" {
		t.Errorf("Unexpected wired client: %+v", nas)
	}
	if nas.Meta == nil || nas.Meta.OSName != "Linux" {
		t.Errorf("Expected fingerprint metadata, got %+v", nas.Meta)
	}
	if nas.TotalBytes() != 300 {
		t.Errorf("Expected traffic counters mapped, got %d", nas.TotalBytes())
	}

	phone := clients[1]
	if phone.Wired || phone.Signal != -58 || phone.SSID != "HomeNet" || phone.UplinkMAC != "aa:aa:aa:00:00:02" {
		t.Errorf("Unexpected wireless client: %+v", phone)
	}
	if phone.Meta != nil {
		t.Errorf("Client without fingerprint data must carry nil metadata, got %+v", phone.Meta)
	}
}

func TestFetchDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/proxy/network/api/s/default/stat/device" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"data": [
			{"_id": "1", "mac": "aa:aa:aa:00:00:01", "name": "office-switch", "model": "USW-24",
			 "type": "usw", "ip": "192.168.1.2", "state": 1, "adopted": true, "num_sta": 12}
		]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	devices, err := c.FetchDevices(context.Background())
	if err != nil {
		t.Fatalf("FetchDevices() error = %v", err)
	}

	if len(devices) != 1 {
		t.Fatalf("Expected 1 device, got %d", len(devices))
	}
	d := devices[0]
	if d.Name != "office-switch" || d.Type != "usw" || !d.Adopted || d.NumClients != 12 {
		t.Errorf("Unexpected device: %+v", d)
	}
}

func TestCommitReservation(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody reservationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	err := c.CommitReservation(context.Background(), "00:11:32:aa:bb:01", "192.168.1.20", "nas-backup")
	if err != nil {
		t.Fatalf("CommitReservation() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("Expected PUT, got %s", gotMethod)
	}
	if gotPath != "/proxy/network/api/s/default/rest/user/00:11:32:aa:bb:01" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if !gotBody.UseFixedIP || gotBody.FixedIP != "192.168.1.20" || gotBody.Name != "nas-backup" {
		t.Errorf("Unexpected body: %+v", gotBody)
	}
}

func TestDo_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"data": []}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	if _, err := c.FetchClients(context.Background()); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	_, err := c.FetchClients(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if attempts != maxAttempts {
		t.Errorf("Expected %d attempts, got %d", maxAttempts, attempts)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": "invalid key"}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "default", "secret")
	_, err := c.FetchClients(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if attempts != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", attempts)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected the status code in the error, got %v", err)
	}
}

func TestResolveUplinks(t *testing.T) {
	clients := []model.Client{
		{Name: "nas", UplinkMAC: "aa:aa:aa:00:00:01"},
		{Name: "phone", UplinkMAC: "aa:aa:aa:00:00:99"},
		{Name: "loner"},
	}
	devices := []model.Device{
		{Name: "office-switch", MAC: "aa:aa:aa:00:00:01"},
	}

	ResolveUplinks(clients, devices)

	if clients[0].Uplink != "office-switch" {
		t.Errorf("Expected uplink resolved, got %q", clients[0].Uplink)
	}
	if clients[1].Uplink != "" || clients[2].Uplink != "" {
		t.Errorf("Unknown uplinks must stay empty: %q, %q", clients[1].Uplink, clients[2].Uplink)
	}
}
