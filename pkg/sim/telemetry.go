package sim

// Telemetry is the cockpit readout published for the HUD. Speed is in
// km/h (display unit), altitude in meters above the runway reference,
// heading in degrees.
type Telemetry struct {
	Speed    float64 `json:"speed"`
	Altitude float64 `json:"altitude"`
	Heading  float64 `json:"heading"`
}

// TelemetrySink receives throttled telemetry updates.
type TelemetrySink interface {
	UpdateTelemetry(t Telemetry)
}

// TelemetryPublisher republishes flight telemetry at a bounded rate so
// presentation cost stays decoupled from the physics tick rate.
type TelemetryPublisher struct {
	sink     TelemetrySink
	interval float64
	elapsed  float64
}

// NewTelemetryPublisher publishes to sink at most once per interval
// seconds of simulation time.
func NewTelemetryPublisher(sink TelemetrySink, interval float64) *TelemetryPublisher {
	return &TelemetryPublisher{sink: sink, interval: interval, elapsed: interval}
}

// Tick accumulates simulation time and publishes when the interval has
// elapsed. The first tick after construction publishes immediately.
func (p *TelemetryPublisher) Tick(dt float64, f *FlightDynamics) {
	if p.sink == nil {
		return
	}
	p.elapsed += dt
	if p.elapsed < p.interval {
		return
	}
	p.elapsed = 0
	p.sink.UpdateTelemetry(Telemetry{
		Speed:    f.Speed() * 3.6,
		Altitude: f.Position().Y,
		Heading:  f.Orientation().Heading(),
	})
}
