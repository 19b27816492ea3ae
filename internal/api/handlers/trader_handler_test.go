package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"copytrade/internal/models"

	"github.com/gorilla/mux"
)

// ============ TraderHandler Tests ============

func TestTraderHandler_RegisterTrader(t *testing.T) {
	t.Run("registers trader successfully", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"name": "alice", "roi": 12.5, "portfolio_value": 1000}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders", body)
		w := httptest.NewRecorder()

		handler.RegisterTrader(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
		}

		var response models.Trader
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.TraderID == "" {
			t.Error("expected generated trader_id")
		}
		if response.Name != "alice" || response.ROI != 12.5 {
			t.Errorf("unexpected trader: %+v", response)
		}
	})

	t.Run("re-registration of existing id returns 200", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["t-1"] = models.Trader{TraderID: "t-1", Name: "alice", ROI: 5}
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"trader_id": "t-1", "name": "alice", "roi": 25, "portfolio_value": 1000}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders", body)
		w := httptest.NewRecorder()

		handler.RegisterTrader(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response models.Trader
		json.NewDecoder(w.Body).Decode(&response)
		if response.ROI != 25 {
			t.Errorf("expected updated roi 25, got %v", response.ROI)
		}
	})

	t.Run("returns 400 on empty name", func(t *testing.T) {
		handler := NewTraderHandler(NewMockCopyService())

		body := bytes.NewBufferString(`{"name": "", "portfolio_value": 1000}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders", body)
		w := httptest.NewRecorder()

		handler.RegisterTrader(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("returns 400 on malformed json", func(t *testing.T) {
		handler := NewTraderHandler(NewMockCopyService())

		body := bytes.NewBufferString(`{not json`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders", body)
		w := httptest.NewRecorder()

		handler.RegisterTrader(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestTraderHandler_GetTrader(t *testing.T) {
	t.Run("returns trader by id", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["t-1"] = models.Trader{TraderID: "t-1", Name: "alice", ROI: 10}
		handler := NewTraderHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/t-1", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "t-1"})
		w := httptest.NewRecorder()

		handler.GetTrader(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response models.Trader
		json.NewDecoder(w.Body).Decode(&response)
		if response.TraderID != "t-1" {
			t.Errorf("expected trader t-1, got %+v", response)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		handler := NewTraderHandler(NewMockCopyService())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/ghost", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "ghost"})
		w := httptest.NewRecorder()

		handler.GetTrader(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestTraderHandler_GetTopTraders(t *testing.T) {
	t.Run("returns top traders", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["a"] = models.Trader{TraderID: "a", ROI: 10}
		mockSvc.traders["b"] = models.Trader{TraderID: "b", ROI: 25}
		handler := NewTraderHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/top?limit=2", nil)
		w := httptest.NewRecorder()

		handler.GetTopTraders(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response []models.Trader
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(response) != 2 {
			t.Errorf("expected 2 traders, got %d", len(response))
		}
	})

	t.Run("returns empty array when no traders", func(t *testing.T) {
		handler := NewTraderHandler(NewMockCopyService())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/top", nil)
		w := httptest.NewRecorder()

		handler.GetTopTraders(w, req)

		if body := w.Body.String(); body == "null\n" {
			t.Error("expected [] instead of null")
		}
	})

	t.Run("returns 400 on invalid limit", func(t *testing.T) {
		handler := NewTraderHandler(NewMockCopyService())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/top?limit=abc", nil)
		w := httptest.NewRecorder()

		handler.GetTopTraders(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestTraderHandler_Follow(t *testing.T) {
	t.Run("follows leader successfully", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["l"] = models.Trader{TraderID: "l"}
		mockSvc.traders["f"] = models.Trader{TraderID: "f"}
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"follower_id": "f"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders/l/follow", body)
		req = mux.SetURLVars(req, map[string]string{"id": "l"})
		w := httptest.NewRecorder()

		handler.Follow(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
		}
	})

	t.Run("returns 404 for unknown leader", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["f"] = models.Trader{TraderID: "f"}
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"follower_id": "f"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders/ghost/follow", body)
		req = mux.SetURLVars(req, map[string]string{"id": "ghost"})
		w := httptest.NewRecorder()

		handler.Follow(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("returns 404 for unknown follower", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["l"] = models.Trader{TraderID: "l"}
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"follower_id": "ghost"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders/l/follow", body)
		req = mux.SetURLVars(req, map[string]string{"id": "l"})
		w := httptest.NewRecorder()

		handler.Follow(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("returns 400 on empty follower_id", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["l"] = models.Trader{TraderID: "l"}
		handler := NewTraderHandler(mockSvc)

		body := bytes.NewBufferString(`{"follower_id": ""}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/traders/l/follow", body)
		req = mux.SetURLVars(req, map[string]string{"id": "l"})
		w := httptest.NewRecorder()

		handler.Follow(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestTraderHandler_GetFollowers(t *testing.T) {
	t.Run("returns followers list", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["l"] = models.Trader{TraderID: "l"}
		mockSvc.followers["l"] = []string{"f1", "f2"}
		handler := NewTraderHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/l/followers", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "l"})
		w := httptest.NewRecorder()

		handler.GetFollowers(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response struct {
			LeaderID  string   `json:"leader_id"`
			Followers []string `json:"followers"`
			Count     int      `json:"count"`
		}
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Count != 2 || len(response.Followers) != 2 {
			t.Errorf("unexpected response: %+v", response)
		}
	})

	t.Run("returns empty array for leader without followers", func(t *testing.T) {
		mockSvc := NewMockCopyService()
		mockSvc.traders["l"] = models.Trader{TraderID: "l"}
		handler := NewTraderHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/traders/l/followers", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "l"})
		w := httptest.NewRecorder()

		handler.GetFollowers(w, req)

		var response struct {
			Followers []string `json:"followers"`
			Count     int      `json:"count"`
		}
		json.NewDecoder(w.Body).Decode(&response)
		if response.Count != 0 || response.Followers == nil {
			t.Errorf("expected empty followers array, got %+v", response)
		}
	})
}
