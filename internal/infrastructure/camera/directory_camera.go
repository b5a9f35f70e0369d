package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // frame format
	_ "image/jpeg" // frame format
	_ "image/png"  // frame format
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	_ "golang.org/x/image/bmp"  // frame format
	_ "golang.org/x/image/tiff" // frame format
	_ "golang.org/x/image/webp" // frame format
)

// ErrCameraBusy is returned when a second capture session is opened
var ErrCameraBusy = errors.New("camera is already in use")

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// DirectoryCamera is a scanning.Camera reading frames from image files
type DirectoryCamera struct {
	dir      string
	interval time.Duration
	logger   logger.Logger

	mu     sync.Mutex
	inUse  bool
	opened int
}

// NewDirectoryCamera creates a camera over settings.FramesDir
func NewDirectoryCamera(settings config.ScannerSettings, logger logger.Logger) *DirectoryCamera {
	return &DirectoryCamera{
		dir:      settings.FramesDir,
		interval: settings.FrameInterval,
		logger:   logger,
	}
}

// Available reports whether the frames directory holds at least one decodable image
func (c *DirectoryCamera) Available(ctx context.Context) (bool, error) {
	files, err := c.frameFiles()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if decodable(file) {
			return true, nil
		}
	}
	return false, nil
}

// Open acquires the camera. The returned source must be closed to release it.
func (c *DirectoryCamera) Open(ctx context.Context) (scanning.FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := c.frameFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inUse {
		return nil, ErrCameraBusy
	}
	c.inUse = true
	c.opened++

	c.logger.Info("Camera opened with ", len(files), " frames from ", c.dir)
	return &frameSource{camera: c, files: files}, nil
}

// InUse reports whether a capture session currently holds the camera
func (c *DirectoryCamera) InUse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inUse
}

// Sessions returns the number of capture sessions opened so far
func (c *DirectoryCamera) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

func (c *DirectoryCamera) release() {
	c.mu.Lock()
	c.inUse = false
	c.mu.Unlock()
	c.logger.Info("Camera released")
}

func (c *DirectoryCamera) frameFiles() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(c.dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func decodable(path string) bool {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	_, _, err = image.DecodeConfig(f)
	return err == nil
}

type frameSource struct {
	camera *DirectoryCamera
	files  []string
	next   int
	once   sync.Once
	closed bool
}

// Next returns the next decodable frame, waiting one frame interval between frames
func (s *frameSource) Next(ctx context.Context) (image.Image, error) {
	for {
		if s.closed {
			return nil, io.ErrClosedPipe
		}
		if s.next >= len(s.files) {
			return nil, io.EOF
		}

		if s.next > 0 && s.camera.interval > 0 {
			timer := time.NewTimer(s.camera.interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := s.files[s.next]
		s.next++

		img, err := readFrame(path)
		if err != nil {
			s.camera.logger.Warn("Skipping frame ", path, ": ", err)
			continue
		}
		return img, nil
	}
}

func (s *frameSource) Close() error {
	s.once.Do(func() {
		s.closed = true
		s.camera.release()
	})
	return nil
}

func readFrame(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}
