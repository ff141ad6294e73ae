package model

// CoverageStatus is the rollout stage of a coverage site.
type CoverageStatus string

const (
	CoverageStatusPlanned CoverageStatus = "planned"
	CoverageStatusTesting CoverageStatus = "testing"
	CoverageStatusActive  CoverageStatus = "active"
)

// CoverageSite is one location on the coverage map.
type CoverageSite struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Lat         float64        `json:"lat" yaml:"lat"`
	Lng         float64        `json:"lng" yaml:"lng"`
	Status      CoverageStatus `json:"status" yaml:"status"`
	Population  string         `json:"population" yaml:"population"`
	Description string         `json:"description" yaml:"description"`
	Challenges  []string       `json:"challenges" yaml:"challenges"`
}

// GroundStation is a speed test server.
type GroundStation struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Distance string `json:"distance" yaml:"distance"`
}

// SpeedTestPhase names a step of the simulated speed test.
type SpeedTestPhase string

const (
	PhaseIdle     SpeedTestPhase = "idle"
	PhasePing     SpeedTestPhase = "ping"
	PhaseDownload SpeedTestPhase = "download"
	PhaseUpload   SpeedTestPhase = "upload"
	PhaseComplete SpeedTestPhase = "complete"
)

// SpeedTestProgress is a single UI-state update emitted while a test runs.
type SpeedTestProgress struct {
	Phase        SpeedTestPhase `json:"phase"`
	Progress     int            `json:"progress"`
	CurrentSpeed *float64       `json:"currentSpeed,omitempty"`
}

// SpeedTestResult is the mock outcome of a finished speed test.
// Download/Upload are in Mbps, Ping/Jitter in ms.
type SpeedTestResult struct {
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
	Ping     float64 `json:"ping"`
	Jitter   float64 `json:"jitter"`
	Server   string  `json:"server"`
	ISP      string  `json:"isp"`
	TestID   string  `json:"testId"`
	Quality  string  `json:"quality"`
}
