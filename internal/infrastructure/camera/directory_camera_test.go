//go:build unit
// +build unit

package camera

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCamera(t *testing.T, dir string) *DirectoryCamera {
	t.Helper()
	return NewDirectoryCamera(config.ScannerSettings{FramesDir: dir, FrameInterval: time.Millisecond}, testutil.SetupTestLogger(t))
}

func TestDirectoryCamera_Available(t *testing.T) {
	withFrame := t.TempDir()
	testutil.WritePNG(t, withFrame, "001.png", testutil.BlankImage(16))

	onlyJunk := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(onlyJunk, "001.png"), []byte("not an image"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(onlyJunk, "notes.txt"), []byte("hello"), 0600))

	tests := []struct {
		name     string
		dir      string
		expected bool
	}{
		{name: "frames", dir: withFrame, expected: true},
		{name: "empty", dir: t.TempDir(), expected: false},
		{name: "missing", dir: filepath.Join(t.TempDir(), "missing"), expected: false},
		{name: "undecodable", dir: onlyJunk, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := newCamera(t, tt.dir).Available(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, available)
		})
	}
}

func TestDirectoryCamera_FramesInOrder(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "002.png", testutil.BlankImage(20))
	testutil.WritePNG(t, dir, "001.png", testutil.BlankImage(10))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "003.png"), []byte("broken"), 0600))

	cam := newCamera(t, dir)
	source, err := cam.Open(context.Background())
	require.NoError(t, err)

	first, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, first.Bounds().Dx())

	second, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, second.Bounds().Dx())

	_, err = source.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF, "broken frame is skipped")

	require.NoError(t, source.Close())
}

func TestDirectoryCamera_SingleSession(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "001.png", testutil.BlankImage(8))

	cam := newCamera(t, dir)
	source, err := cam.Open(context.Background())
	require.NoError(t, err)
	assert.True(t, cam.InUse())

	_, err = cam.Open(context.Background())
	assert.ErrorIs(t, err, ErrCameraBusy)

	require.NoError(t, source.Close())
	require.NoError(t, source.Close())
	assert.False(t, cam.InUse())

	_, err = source.Next(context.Background())
	assert.Error(t, err)

	again, err := cam.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, again.Close())
	assert.Equal(t, 2, cam.Sessions())
}

func TestDirectoryCamera_NextHonoursContext(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "001.png", testutil.BlankImage(8))
	testutil.WritePNG(t, dir, "002.png", testutil.BlankImage(8))

	cam := NewDirectoryCamera(config.ScannerSettings{FramesDir: dir, FrameInterval: time.Hour}, testutil.SetupTestLogger(t))
	source, err := cam.Open(context.Background())
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	_, err = source.Next(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = source.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
