package kite

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the engine's prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Frames          prometheus.Counter
	ClampedFrames   prometheus.Counter
	FrameDelta      prometheus.Histogram
	RasterPasses    prometheus.Counter
	RasterCoalesced prometheus.Counter
	RasterFailures  prometheus.Counter
	TextureLoads    prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Name: "frames_total",
			Help: "Frames updated by the animation loop.",
		}),
		ClampedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Name: "frames_clamped_total",
			Help: "Frames whose delta time was clamped to the maximum.",
		}),
		FrameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kite", Name: "frame_delta_seconds",
			Help:    "Delta time fed to update, after clamping.",
			Buckets: []float64{0.004, 0.008, 0.012, 0.017, 0.025, 0.034, 0.05},
		}),
		RasterPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Subsystem: "texture", Name: "raster_passes_total",
			Help: "Completed or failed rasterization passes.",
		}),
		RasterCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Subsystem: "texture", Name: "raster_coalesced_total",
			Help: "Rasterize requests folded into a pending rerun.",
		}),
		RasterFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Subsystem: "texture", Name: "raster_failures_total",
			Help: "Rasterization passes that failed to decode.",
		}),
		TextureLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kite", Subsystem: "texture", Name: "loads_total",
			Help: "Vector documents fetched and parsed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Frames, m.ClampedFrames, m.FrameDelta,
			m.RasterPasses, m.RasterCoalesced, m.RasterFailures, m.TextureLoads)
	}
	return m
}

func (m *Metrics) frame(dt float64, clamped bool) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	m.FrameDelta.Observe(dt)
	if clamped {
		m.ClampedFrames.Inc()
	}
}

func (m *Metrics) rasterPass(failed bool) {
	if m == nil {
		return
	}
	m.RasterPasses.Inc()
	if failed {
		m.RasterFailures.Inc()
	}
}

func (m *Metrics) rasterCoalesced() {
	if m == nil {
		return
	}
	m.RasterCoalesced.Inc()
}

func (m *Metrics) textureLoaded() {
	if m == nil {
		return
	}
	m.TextureLoads.Inc()
}
