//go:build unit
// +build unit

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.got = append(r.got, n)
}

func TestNotificationLog_KeepsMostRecent(t *testing.T) {
	next := &recordingNotifier{}
	log := NewNotificationLog(2, next)

	notify(log, VariantSuccess, MsgAddCompanySuccess, "Acme")
	notify(log, VariantError, MsgCompanyNotFound, "")
	notify(log, VariantSuccess, MsgResetSuccess, "")

	recent := log.Recent()
	assert.Len(t, recent, 2)
	assert.Equal(t, MsgCompanyNotFound, recent[0].Title)
	assert.Equal(t, MsgResetSuccess, recent[1].Title)
	assert.Len(t, next.got, 3, "every notification is forwarded")
	assert.False(t, recent[1].At.IsZero())
}

func TestNotificationLog_WithoutNext(t *testing.T) {
	log := NewNotificationLog(5, nil)
	notify(log, VariantInfo, "hello", "")
	assert.Len(t, log.Recent(), 1)
}
