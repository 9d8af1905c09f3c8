package consts

import "time"

// Buffer sizes for socket I/O
const (
	// ReadChunkSize is the size of one socket read
	ReadChunkSize = 4 * 1024
	// BufferSize64KB is 64 kilobytes
	BufferSize64KB = 64 * 1024
	// BufferSize1MB is 1 megabyte
	BufferSize1MB = 1024 * 1024
	// DefaultMaxLineBytes caps one request line unless configured otherwise
	DefaultMaxLineBytes = 16 * BufferSize1MB
)

// Queue depths
const (
	// ClientEventQueueSize is the per-client asynchronous event queue depth
	ClientEventQueueSize = 128
)

// Timeouts for various operations
const (
	// Timeout1Second is a 1 second timeout
	Timeout1Second = 1 * time.Second
	// Timeout5Seconds is a 5 second timeout
	Timeout5Seconds = 5 * time.Second
	// Timeout10Seconds is a 10 second timeout
	Timeout10Seconds = 10 * time.Second
	// Timeout30Seconds is a 30 second timeout
	Timeout30Seconds = 30 * time.Second
)
