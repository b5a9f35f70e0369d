// Package scanning contains the contracts of the QR scanner: cameras that hand out
// frame sources, decoders that read a payload from a frame, and scanner states.
package scanning

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrNoCamera is returned when a scan is started without an available camera
	ErrNoCamera = errors.New("no camera found")
	// ErrAlreadyScanning is returned when a scan is started during another scan
	ErrAlreadyScanning = errors.New("a scan is already running")
	// ErrNoCode is returned by a Decoder when a frame holds no readable QR code
	ErrNoCode = errors.New("no QR code in frame")
)

// State is the state of a scanner
type State string

const (
	StateDetecting     State = "detecting"
	StateNoCameraFound State = "no_camera_found"
	StateIdle          State = "idle"
	StateScanning      State = "scanning"
)

// MessageNoCamera is shown while no camera is available
const MessageNoCamera = "Oops.. your camera isn't detected, please check the camera and its permissions."

// FrameSource is an acquired capture session. Next returns io.EOF once the source is exhausted.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// Camera hands out at most one frame source at a time
type Camera interface {
	Available(ctx context.Context) (bool, error)
	Open(ctx context.Context) (FrameSource, error)
}

// Decoder extracts a QR payload from a frame
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// Status is a snapshot of a scanner
type Status struct {
	State     State  `json:"state" yaml:"state"`
	SessionID string `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	Result    string `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}
