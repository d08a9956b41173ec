package main

// Fade engine configuration
const (
	// tickRateHz is the fade interpolation rate. Both the step sizing and
	// the loop cadence derive from it.
	tickRateHz = 60

	defaultFadeDurationS = 5.0

	// volumeTolerance is the band within which the current and target
	// volume are considered equal and a fade is a no-op.
	volumeTolerance = 1e-6
)

// Connection defaults
const (
	defaultHost          = "localhost"
	defaultPort          = 4455
	defaultReadTimeoutMS = 2000 // Timeout for reading websocket responses (ms)
	handshakeTimeoutMS   = 2000

	defaultInputName = "Mic/Aux"
)

// rpcVersion is the obs-websocket RPC version this client speaks.
const rpcVersion = 1
