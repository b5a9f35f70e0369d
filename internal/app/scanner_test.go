//go:build unit
// +build unit

package app

import (
	"context"
	"testing"
	"time"

	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/camera"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/qrdecode"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T, dir string, interval time.Duration) (*Scanner, *camera.DirectoryCamera) {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	cam := camera.NewDirectoryCamera(config.ScannerSettings{FramesDir: dir, FrameInterval: interval}, logger)
	scanner := NewScanner(cam, qrdecode.NewDecoder(), logger)
	require.NoError(t, scanner.Detect(context.Background()))
	return scanner, cam
}

func TestScanner_SingleShot(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "01-blank.png", testutil.BlankImage(200))
	testutil.WritePNG(t, dir, "02-code.png", testutil.QRCodeImage(t, "https://example.com/vault", 256))
	testutil.WritePNG(t, dir, "03-code.png", testutil.QRCodeImage(t, "second payload", 256))

	scanner, cam := newTestScanner(t, dir, time.Millisecond)
	assert.Equal(t, scanning.StateIdle, scanner.Status().State)

	require.NoError(t, scanner.Start(context.Background()))
	require.NoError(t, scanner.Wait(context.Background()))

	status := scanner.Status()
	assert.Equal(t, scanning.StateIdle, status.State)
	assert.Equal(t, "https://example.com/vault", status.Result)
	assert.NotEmpty(t, status.SessionID)
	assert.Empty(t, status.Error)
	assert.False(t, cam.InUse(), "camera is released after the first payload")
	assert.Equal(t, 1, cam.Sessions())
}

func TestScanner_NoCameraFound(t *testing.T) {
	scanner, _ := newTestScanner(t, t.TempDir(), time.Millisecond)

	status := scanner.Status()
	assert.Equal(t, scanning.StateNoCameraFound, status.State)
	assert.Equal(t, scanning.MessageNoCamera, status.Message)
	require.ErrorIs(t, scanner.Start(context.Background()), scanning.ErrNoCamera)
}

func TestScanner_StartBeforeDetect(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	cam := camera.NewDirectoryCamera(config.ScannerSettings{FramesDir: t.TempDir(), FrameInterval: time.Millisecond}, logger)
	scanner := NewScanner(cam, qrdecode.NewDecoder(), logger)

	assert.Equal(t, scanning.StateDetecting, scanner.Status().State)
	require.ErrorIs(t, scanner.Start(context.Background()), scanning.ErrNoCamera)
}

func TestScanner_StopKeepsResultAndReleasesCamera(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "01-blank.png", testutil.BlankImage(64))
	testutil.WritePNG(t, dir, "02-blank.png", testutil.BlankImage(64))

	scanner, cam := newTestScanner(t, dir, time.Hour)

	require.NoError(t, scanner.Start(context.Background()))
	require.ErrorIs(t, scanner.Start(context.Background()), scanning.ErrAlreadyScanning)
	assert.True(t, cam.InUse())

	scanner.Stop()
	assert.Equal(t, scanning.StateIdle, scanner.Status().State)
	assert.Empty(t, scanner.Result())
	assert.False(t, cam.InUse())
}

func TestScanner_HidingStopsSession(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "01-blank.png", testutil.BlankImage(64))
	testutil.WritePNG(t, dir, "02-blank.png", testutil.BlankImage(64))

	scanner, cam := newTestScanner(t, dir, time.Hour)
	require.NoError(t, scanner.Start(context.Background()))

	scanner.SetHidden(true)
	assert.True(t, scanner.Hidden())
	assert.Equal(t, scanning.StateIdle, scanner.Status().State)
	assert.False(t, cam.InUse())
}

func TestScanner_ExhaustedFramesEndSession(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePNG(t, dir, "01-blank.png", testutil.BlankImage(64))

	scanner, cam := newTestScanner(t, dir, time.Millisecond)
	require.NoError(t, scanner.Start(context.Background()))
	require.NoError(t, scanner.Wait(context.Background()))

	assert.Equal(t, scanning.StateIdle, scanner.Status().State)
	assert.Empty(t, scanner.Result())
	assert.False(t, cam.InUse())

	// a finished session can be followed by a new one
	require.NoError(t, scanner.Start(context.Background()))
	require.NoError(t, scanner.Wait(context.Background()))
	assert.Equal(t, 2, cam.Sessions())
}
