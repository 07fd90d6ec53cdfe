package protocol

// Decoding limits for client frames.
const (
	// MaxRects bounds the layout entries in one frame.
	MaxRects = 4096

	// MaxValues bounds the control values in a hello frame.
	MaxValues = 256

	// MaxOpen bounds the open elements in a hello frame.
	MaxOpen = 64

	// MaxValueLength bounds a single control value in bytes.
	MaxValueLength = 16 * 1024

	// MaxKeyLength bounds KeyboardEvent.key.
	MaxKeyLength = 32
)
