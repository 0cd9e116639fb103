package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/five82/linewatch/internal/equipment"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("JST", 9*60*60))

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := equipment.SampleDataset()
	if err != nil {
		t.Fatalf("SampleDataset: %v", err)
	}
	return New(ds, WithClock(func() time.Time { return fixedNow }))
}

func doRequest(t *testing.T, s *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestEquipmentStatus_AllRecords(t *testing.T) {
	s := newTestServer(t)
	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/equipment-status", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var payload equipment.StatusResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "success" || payload.Count != 8 || len(payload.Data) != 8 {
		t.Fatalf("payload status=%q count=%d len=%d", payload.Status, payload.Count, len(payload.Data))
	}
	if payload.Timestamp != "2026-03-14T00:30:00Z" {
		t.Fatalf("timestamp = %q, want UTC RFC3339", payload.Timestamp)
	}
	if payload.Statistics == nil {
		t.Fatalf("statistics missing")
	}
	avg, ok := payload.Statistics.AverageEfficiency()
	if !ok || avg != 96.3 {
		t.Fatalf("averageEfficiency = %v (ok=%v), want 96.3", avg, ok)
	}
	if payload.Statistics.TotalOperatingHours != 12586 {
		t.Fatalf("totalOperatingHours = %d", payload.Statistics.TotalOperatingHours)
	}
}

func TestEquipmentStatus_FiltersAndLimit(t *testing.T) {
	s := newTestServer(t)
	target := "/api/v1/equipment-status?status=Active&location=%E7%AC%AC1%E5%B7%A5%E5%A0%B4&limit=2"
	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, target, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var payload equipment.StatusResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Count != 2 || payload.Data[0].EquipmentID != 1 || payload.Data[1].EquipmentID != 2 {
		t.Fatalf("payload = %+v, want first two active records", payload.Data)
	}
	want := equipment.Filters{Status: "Active", Location: "第1工場", Limit: 2}
	if payload.FiltersApplied != want {
		t.Fatalf("filters_applied = %+v, want %+v", payload.FiltersApplied, want)
	}
	if !strings.Contains(string(body), `"filters_applied":`) {
		t.Fatalf("body missing filters_applied key: %s", body)
	}
	if payload.Statistics.TotalEquipment != 2 {
		t.Fatalf("statistics cover %d records, want 2", payload.Statistics.TotalEquipment)
	}
}

func TestEquipmentStatus_InvalidLimitIsIgnored(t *testing.T) {
	s := newTestServer(t)
	for _, limit := range []string{"abc", "0", "-3"} {
		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/equipment-status?limit="+limit, nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("limit=%s: status = %d", limit, resp.StatusCode)
		}
		var payload equipment.StatusResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Count != 8 {
			t.Fatalf("limit=%s: count = %d, want 8", limit, payload.Count)
		}
	}
}

func TestEquipmentStatus_NoMatchesReturnsEmptyArray(t *testing.T) {
	s := newTestServer(t)
	_, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/equipment-status?equipmentType=Reactor", nil))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["data"]) != "[]" {
		t.Fatalf("data = %s, want []", raw["data"])
	}
	var stats map[string]json.RawMessage
	if err := json.Unmarshal(raw["statistics"], &stats); err != nil {
		t.Fatalf("decode statistics: %v", err)
	}
	if string(stats["averageEfficiency"]) != "null" {
		t.Fatalf("averageEfficiency = %s, want null", stats["averageEfficiency"])
	}
}

func TestEquipmentStatus_FailureUsesErrorEnvelope(t *testing.T) {
	s := New(nil, WithClock(func() time.Time { return fixedNow }))
	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/equipment-status", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "error" || payload["message"] == "" || payload["timestamp"] != "2026-03-14T00:30:00Z" {
		t.Fatalf("error payload = %v", payload)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "healthy" || payload.Records != 8 {
		t.Fatalf("health = %+v", payload)
	}
}

func TestRequestIDIsEchoedOrMinted(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, _ := doRequest(t, s, req)
	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}

	resp, _ = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if got := resp.Header.Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("minted X-Request-ID = %q, want a uuid", got)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, _ := doRequest(t, s, req)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}

	resp, body := doRequest(t, s, httptest.NewRequest(http.MethodOptions, "/api/v1/equipment-status", nil))
	if resp.StatusCode != http.StatusOK || len(body) != 0 {
		t.Fatalf("OPTIONS status = %d body %q, want empty 200", resp.StatusCode, body)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/equipment-status", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, _ = doRequest(t, s, preflight)
	if resp.StatusCode >= 300 {
		t.Fatalf("preflight status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight Access-Control-Allow-Origin = %q", got)
	}
}

func TestClientAgainstServer(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(adaptor.FiberApp(s.App()))
	defer ts.Close()

	client, err := equipment.NewClient(ts.URL + "/api")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	resp, err := client.FetchEquipmentStatus(ctx, equipment.Filters{Status: "Maintenance"})
	if err != nil {
		t.Fatalf("FetchEquipmentStatus: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].Status != equipment.StatusMaintenance {
		t.Fatalf("response = %+v, want the single maintenance record", resp.Data)
	}

	health, err := client.HealthCheck(ctx)
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(health, &payload); err != nil || payload["status"] != "healthy" {
		t.Fatalf("health = %s (%v)", health, err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LINEWATCH_API_ADDR", "")
	t.Setenv("LINEWATCH_CORS_ORIGINS", "")
	t.Setenv("LINEWATCH_DATASET", "")
	cfg := LoadConfig()
	if cfg.Addr != DefaultAddr || cfg.CORSOrigins != "*" || cfg.DatasetPath != "" {
		t.Fatalf("defaults = %+v", cfg)
	}

	t.Setenv("LINEWATCH_API_ADDR", "127.0.0.1:9000")
	t.Setenv("LINEWATCH_DATASET", " /tmp/equipment.json ")
	t.Setenv("LINEWATCH_LOG_LEVEL", "debug")
	cfg = LoadConfig()
	if cfg.Addr != "127.0.0.1:9000" || cfg.DatasetPath != "/tmp/equipment.json" || cfg.LogLevel != "debug" {
		t.Fatalf("overrides = %+v", cfg)
	}
}
