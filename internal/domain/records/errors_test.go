//go:build unit
// +build unit

package records

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewError(KindNotFound, "remove company", cause)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrImport))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("view: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "store unavailable", ErrStoreUnavailable.Error())
	assert.Equal(t, "import: import error: bad json", NewError(KindImport, "import", errors.New("bad json")).Error())
	assert.Equal(t, "open: key error", NewError(KindKey, "open", nil).Error())
	assert.Equal(t, "unknown error: boom", NewError(KindUnknown, "", errors.New("boom")).Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindKey, KindOf(ErrKey))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify("op", nil))

	plain := Classify("list companies", errors.New("plain"))
	assert.Equal(t, KindUnknown, KindOf(plain))
	assert.Contains(t, plain.Error(), "list companies")

	kept := Classify("remove", NewError(KindNotFound, "lookup", nil))
	assert.Equal(t, KindNotFound, KindOf(kept))
	assert.Contains(t, kept.Error(), "lookup")
}
