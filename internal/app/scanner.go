package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/google/uuid"
)

// Scanner drives single-shot QR scan sessions. The camera is acquired on Start and
// released on every way out of a session.
type Scanner struct {
	camera  scanning.Camera
	decoder scanning.Decoder
	logger  logger.Logger

	mu        sync.Mutex
	state     scanning.State
	sessionID string
	result    string
	err       error
	hidden    bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewScanner creates a scanner in the Detecting state
func NewScanner(camera scanning.Camera, decoder scanning.Decoder, logger logger.Logger) *Scanner {
	return &Scanner{
		camera:  camera,
		decoder: decoder,
		logger:  logger,
		state:   scanning.StateDetecting,
	}
}

// Detect checks for a camera and moves to Idle, or to NoCameraFound for good
func (s *Scanner) Detect(ctx context.Context) error {
	available, err := s.camera.Available(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != scanning.StateDetecting {
		return nil
	}
	if err != nil || !available {
		s.state = scanning.StateNoCameraFound
		s.logger.Warn("No camera found")
		return err
	}
	s.state = scanning.StateIdle
	return nil
}

// Start opens a capture session. The session ends by itself after the first decoded payload.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case scanning.StateDetecting, scanning.StateNoCameraFound:
		return scanning.ErrNoCamera
	case scanning.StateScanning:
		return scanning.ErrAlreadyScanning
	}

	source, err := s.camera.Open(ctx)
	if err != nil {
		s.err = err
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.sessionID = uuid.NewString()
	s.result = ""
	s.err = nil
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = scanning.StateScanning

	go s.capture(runCtx, s.sessionID, source, s.done)
	s.logger.Info("Scan session ", s.sessionID, " started")
	return nil
}

func (s *Scanner) capture(ctx context.Context, sessionID string, source scanning.FrameSource, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if err := source.Close(); err != nil {
			s.logger.Warn("Failed to release camera: ", err)
		}
	}()

	for {
		frame, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.finish(sessionID, "", nil)
			} else {
				s.finish(sessionID, "", err)
			}
			return
		}

		text, err := s.decoder.Decode(frame)
		if err != nil {
			if !errors.Is(err, scanning.ErrNoCode) {
				s.logger.Debug("Frame decode failed: ", err)
			}
			continue
		}
		s.finish(sessionID, text, nil)
		return
	}
}

// finish ends a session that is still running; a stopped session keeps its result unchanged
func (s *Scanner) finish(sessionID, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != sessionID || s.state != scanning.StateScanning {
		return
	}
	s.state = scanning.StateIdle
	s.cancel()
	if text != "" {
		s.result = text
		s.logger.Info("Scan session ", sessionID, " decoded a payload")
	}
	if err != nil {
		s.err = err
		s.logger.Error("Scan session ", sessionID, " failed: ", err)
	}
}

// Stop halts a running session without changing the result and waits until the
// camera is released
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.state != scanning.StateScanning {
		done := s.done
		s.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	s.state = scanning.StateIdle
	s.cancel()
	done := s.done
	sessionID := s.sessionID
	s.mu.Unlock()

	<-done
	s.logger.Info("Scan session ", sessionID, " stopped")
}

// SetHidden records the visibility of the scanner; hiding it stops any session
func (s *Scanner) SetHidden(hidden bool) {
	s.mu.Lock()
	s.hidden = hidden
	s.mu.Unlock()

	if hidden {
		s.Stop()
	}
}

// Wait blocks until the current session ends or ctx is done
func (s *Scanner) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the payload of the last successful session
func (s *Scanner) Result() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Status returns a snapshot of the scanner
func (s *Scanner) Status() scanning.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := scanning.Status{
		State:     s.state,
		SessionID: s.sessionID,
		Result:    s.result,
	}
	if s.err != nil {
		status.Error = s.err.Error()
	}
	if s.state == scanning.StateNoCameraFound {
		status.Message = scanning.MessageNoCamera
	}
	return status
}

// Hidden reports whether the scanner is hidden
func (s *Scanner) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}
