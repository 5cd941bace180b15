package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/models"
)

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)
	return w
}

func TestCreateWallet(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/wallets", map[string]interface{}{"name": "Cold Storage"})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var wallet models.Wallet
	if err := json.Unmarshal(w.Body.Bytes(), &wallet); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if wallet.Name != "Cold Storage" {
		t.Errorf("Expected name Cold Storage, got %s", wallet.Name)
	}
}

func TestCreateWallet_MissingName(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/wallets", map[string]interface{}{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreateWallet_InvalidJSON(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("POST", "/api/wallets", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreateWallet_DuplicateName(t *testing.T) {
	server := createTestServer()

	doJSON(t, server, "POST", "/api/wallets", map[string]interface{}{"name": "Cold Storage"})
	w := doJSON(t, server, "POST", "/api/wallets", map[string]interface{}{"name": "Cold Storage"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 on duplicate name, got %d", w.Code)
	}
}

func TestGetWallet_NotFound(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/wallets/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteWallet_NoBody(t *testing.T) {
	server := createTestServer()
	doJSON(t, server, "POST", "/api/wallets", map[string]interface{}{"name": "Cold Storage"})

	w := doJSON(t, server, "DELETE", "/api/wallets/wallet-1", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body on delete, got %q", w.Body.String())
	}
}

func TestCreateMonthly(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/monthly", map[string]interface{}{
		"walletId": "w1",
		"year":     2024,
		"month":    3,
		"valueUsd": 1500,
	})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBulkUpsertMonthly(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/monthly/bulk", map[string]interface{}{
		"entries": []map[string]interface{}{
			{"walletId": "w1", "year": 2024, "month": 1, "valueUsd": 1000},
			{"year": 2024, "month": 1, "valueUsd": 50}, // skipped: no wallet reference
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("Expected count 1, got %d", resp.Count)
	}
}

func TestBulkUpsertMonthly_BatchLevelFields(t *testing.T) {
	server := createTestServer()

	// year, month and btcPrice at the batch level cover rows that only
	// carry a wallet and a value.
	w := doJSON(t, server, "POST", "/api/monthly/bulk", map[string]interface{}{
		"year":     2024,
		"month":    1,
		"btcPrice": 65000,
		"entries": []map[string]interface{}{
			{"walletId": "w1", "valueUsd": 1000},
		},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count   int                   `json:"count"`
		Entries []models.MonthlyEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("Expected count 1, got %d", resp.Count)
	}
	if resp.Entries[0].Year != 2024 || resp.Entries[0].Month != 1 {
		t.Errorf("Expected batch year and month applied, got %d-%d", resp.Entries[0].Year, resp.Entries[0].Month)
	}
}

func TestBulkUpsertMonthly_EmptyEntries(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/monthly/bulk", map[string]interface{}{
		"entries": []map[string]interface{}{},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMonthlySummary(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/monthly/summary?year=2024", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var summary struct {
		Year int `json:"year"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.Year != 2024 {
		t.Errorf("Expected year 2024, got %d", summary.Year)
	}
}

func TestMonthlySummary_BadYear(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/monthly/summary?year=abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDailySnapshots_BadMonth(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/daily/snapshots?year=2024&month=13", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMetrics_BadInitialInvestment(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/metrics?initialInvestment=abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestYears(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/years", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var years []int
	if err := json.Unmarshal(w.Body.Bytes(), &years); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 {
		t.Errorf("Unexpected years payload: %v", years)
	}
}

func TestCheckAlerts_EmptyBody(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("POST", "/api/alerts/check", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with no observations, got %d", w.Code)
	}
}

func TestResetAlert_NotFound(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "POST", "/api/alerts/missing/reset", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestErrorResponseFormat verifies every error reply carries the
// {"error": string} shape.
func TestErrorResponseFormat(t *testing.T) {
	server := createTestServer()

	w := doJSON(t, server, "GET", "/api/wallets/missing", nil)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	msg, ok := body["error"].(string)
	if !ok || msg == "" {
		t.Errorf("Expected non-empty error string, got %v", body)
	}
	if len(body) != 1 {
		t.Errorf("Expected only the error field, got %v", body)
	}
}
