// Package integration contains integration tests for the copy-trading engine.
//
// These tests verify the correct interaction between components:
// - API integration tests: full HTTP request cycle through handler and service layers
// - WebSocket tests: connection, broadcast of drain-cycle results
//
// The engine core is in-memory, so no external services are required.
package integration

import (
	"net/http/httptest"
	"testing"
	"time"

	"copytrade/internal/api"
	"copytrade/internal/config"
	"copytrade/internal/engine"
	"copytrade/internal/service"
	"copytrade/internal/websocket"

	"go.uber.org/zap"
)

// TestServer encapsulates all components needed for integration testing
type TestServer struct {
	Engine  *engine.Engine
	Hub     *websocket.Hub
	Server  *httptest.Server
	Cleanup func()
}

// SetupTestServer wires the full stack behind an httptest server
func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := &config.Config{
		Engine: config.EngineConfig{
			DrainInterval:     10 * time.Millisecond,
			HistoryCapacity:   50,
			TopTradersDefault: 5,
		},
	}

	logger := zap.NewNop().Sugar()

	eng := engine.NewEngine(cfg, logger)

	hub := websocket.NewHub(logger)
	go hub.Run()
	eng.SetBroadcaster(hub)

	deps := &api.Dependencies{
		CopyService: service.NewCopyService(eng, cfg.Engine.TopTradersDefault),
		Hub:         hub,
		Logger:      logger,
	}

	server := httptest.NewServer(api.SetupRoutes(deps))

	return &TestServer{
		Engine: eng,
		Hub:    hub,
		Server: server,
		Cleanup: func() {
			server.Close()
		},
	}
}
