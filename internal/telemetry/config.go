package telemetry

import sdktrace "go.opentelemetry.io/otel/sdk/trace"

// Config holds OpenTelemetry configuration for a cachefs process (lock
// server, extent service, or filesystem client).
type Config struct {
	// Enabled indicates whether tracing is enabled
	Enabled bool

	// ServiceName is the name of the service reported to the trace backend
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317")
	Endpoint string

	// Insecure indicates whether to use insecure connection (no TLS)
	Insecure bool

	// SampleRate is the trace sampling rate (0.0 to 1.0)
	// 1.0 means sample all traces, 0.5 means sample 50%
	SampleRate float64
}

// DefaultConfig returns a default configuration: tracing disabled,
// pointed at a local collector so enabling it is a one-flag change.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "cachefs",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// sampler builds the sdktrace.Sampler implied by c.SampleRate: the
// boundary values get the non-probabilistic always/never samplers
// rather than routing 0.0 and 1.0 through the ratio-based one.
func (c Config) sampler() sdktrace.Sampler {
	switch {
	case c.SampleRate >= 1.0:
		return sdktrace.AlwaysSample()
	case c.SampleRate <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(c.SampleRate)
	}
}
