package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aurasat/backend/internal/model"
	"github.com/aurasat/backend/internal/service"
)

// streamWriteWindow is how long each speed test event may take to reach the
// client. It replaces the server-wide write timeout for the stream.
const streamWriteWindow = 30 * time.Second

// SpeedTester runs the simulated speed test.
type SpeedTester interface {
	Stations() []model.GroundStation
	Station(id string) (model.GroundStation, error)
	Run(ctx context.Context, stationID string, emit func(model.SpeedTestProgress) error) (*model.SpeedTestResult, error)
}

// SpeedTestHandler serves the ground station list and the streamed speed test.
type SpeedTestHandler struct {
	tester SpeedTester
}

func NewSpeedTestHandler(tester SpeedTester) *SpeedTestHandler {
	return &SpeedTestHandler{tester: tester}
}

// speedTestEvent is one NDJSON line of GET /api/speedtest/run.
type speedTestEvent struct {
	Type string `json:"type"`
	*model.SpeedTestProgress
	Result *model.SpeedTestResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Servers handles GET /api/speedtest/servers.
func (h *SpeedTestHandler) Servers(w http.ResponseWriter, r *http.Request) {
	stations := h.tester.Stations()
	if stations == nil {
		stations = []model.GroundStation{}
	}
	writeJSON(w, http.StatusOK, map[string][]model.GroundStation{"servers": stations})
}

// Run handles GET /api/speedtest/run?server={id}. Progress events are flushed
// as they happen and the stream ends with a single result event.
func (h *SpeedTestHandler) Run(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("server")
	if _, err := h.tester.Station(stationID); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	send := func(ev speedTestEvent) error {
		if err := rc.SetWriteDeadline(time.Now().Add(streamWriteWindow)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	result, err := h.tester.Run(r.Context(), stationID, func(p model.SpeedTestProgress) error {
		return send(speedTestEvent{Type: "progress", SpeedTestProgress: &p})
	})
	if err != nil {
		if r.Context().Err() != nil {
			slog.Debug("speed test abandoned", "server", stationID, "error", err)
			return
		}
		slog.Error("speed test failed", "server", stationID, "error", err)
		_ = send(speedTestEvent{Type: "error", Error: "internal_error"})
		return
	}
	if err := send(speedTestEvent{Type: "result", Result: result}); err != nil {
		slog.Debug("speed test result not delivered", "server", stationID, "error", err)
	}
}

var _ SpeedTester = (*service.SpeedTestService)(nil)
