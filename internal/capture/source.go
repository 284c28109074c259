package capture

// Source produces raw floating-point audio batches from a capture device.
// Implementations own the device handle; the session owns the Source.
type Source interface {
	// Start opens the device and begins delivering batches. A permission or
	// device error is returned immediately and leaves nothing to release.
	Start() error

	// Batches returns the stream of captured sample batches. The channel is
	// closed after Stop or on an unrecoverable device error.
	Batches() <-chan []float32

	// Stop releases the device. Safe to call more than once.
	Stop() error
}
