package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aurasat/backend/internal/model"
)

// ErrUnknownStation is returned when a speed test names a ground station that does not exist.
var ErrUnknownStation = errors.New("unknown ground station")

const (
	speedTestISP     = "AuraSAT Satellite Network"
	defaultStationID = "1"
)

type speedRange struct{ min, max float64 }

var (
	downloadRange = speedRange{10, 50} // Mbps
	uploadRange   = speedRange{5, 25}  // Mbps
	pingRange     = speedRange{20, 120}
	jitterRange   = speedRange{1, 11}
)

// phaseStep describes one scripted phase: progress advances by step every delay.
type phaseStep struct {
	phase model.SpeedTestPhase
	step  int
	delay time.Duration
	speed *speedRange
}

var speedTestScript = []phaseStep{
	{phase: model.PhasePing, step: 10, delay: 100 * time.Millisecond},
	{phase: model.PhaseDownload, step: 5, delay: 150 * time.Millisecond, speed: &downloadRange},
	{phase: model.PhaseUpload, step: 5, delay: 150 * time.Millisecond, speed: &uploadRange},
}

// SpeedTestConfig tunes the simulator.
type SpeedTestConfig struct {
	Stations []model.GroundStation
	// Pacing scales every step delay; 0 runs the script without waiting.
	Pacing float64
	// Rand defaults to a randomly seeded PCG source.
	Rand *rand.Rand
	// Now defaults to time.Now.
	Now func() time.Time
}

// SpeedTestService plays the scripted, random-number-driven speed test. It
// measures nothing.
type SpeedTestService struct {
	stations []model.GroundStation
	pacing   float64
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSpeedTestService(cfg SpeedTestConfig) *SpeedTestService {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	pacing := cfg.Pacing
	if pacing < 0 {
		pacing = 0
	}
	return &SpeedTestService{stations: cfg.Stations, pacing: pacing, now: now, rnd: rnd}
}

// Stations returns the ground stations a test can run against.
func (s *SpeedTestService) Stations() []model.GroundStation {
	return s.stations
}

// Station looks up a ground station; an empty id selects the default one.
func (s *SpeedTestService) Station(id string) (model.GroundStation, error) {
	if id == "" {
		id = defaultStationID
	}
	for _, st := range s.stations {
		if st.ID == id {
			return st, nil
		}
	}
	return model.GroundStation{}, fmt.Errorf("%w: %q", ErrUnknownStation, id)
}

func (s *SpeedTestService) uniform(r speedRange) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.min + s.rnd.Float64()*(r.max-r.min)
}

func (s *SpeedTestService) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * s.pacing)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run plays the ping, download and upload phases against stationID, calling
// emit for every UI-state update, then returns the mock result. It stops with
// the context's error when ctx is cancelled, or with emit's error.
func (s *SpeedTestService) Run(ctx context.Context, stationID string, emit func(model.SpeedTestProgress) error) (*model.SpeedTestResult, error) {
	station, err := s.Station(stationID)
	if err != nil {
		return nil, err
	}

	for _, ph := range speedTestScript {
		if err := emit(model.SpeedTestProgress{Phase: ph.phase}); err != nil {
			return nil, err
		}
		for progress := ph.step; progress <= 100; progress += ph.step {
			if err := s.wait(ctx, ph.delay); err != nil {
				return nil, err
			}
			update := model.SpeedTestProgress{Phase: ph.phase, Progress: progress}
			if ph.speed != nil {
				speed := float64(progress) / 100 * s.uniform(*ph.speed)
				update.CurrentSpeed = &speed
			}
			if err := emit(update); err != nil {
				return nil, err
			}
		}
	}
	if err := emit(model.SpeedTestProgress{Phase: model.PhaseComplete, Progress: 100}); err != nil {
		return nil, err
	}

	download := s.uniform(downloadRange)
	return &model.SpeedTestResult{
		Download: download,
		Upload:   s.uniform(uploadRange),
		Ping:     s.uniform(pingRange),
		Jitter:   s.uniform(jitterRange),
		Server:   station.Name,
		ISP:      speedTestISP,
		TestID:   fmt.Sprintf("AST-%d", s.now().UnixMilli()),
		Quality:  ConnectionQuality(download),
	}, nil
}

// ConnectionQuality labels a download speed in Mbps.
func ConnectionQuality(mbps float64) string {
	switch {
	case mbps >= 50:
		return "Excellent"
	case mbps >= 25:
		return "Good"
	case mbps >= 10:
		return "Fair"
	default:
		return "Poor"
	}
}
