//go:build unit
// +build unit

package fakedata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Values(t *testing.T) {
	g := NewGenerator(42)

	assert.Contains(t, g.CompanyName(), " ")
	assert.NotEmpty(t, strings.TrimSpace(g.PersonName()))
	assert.Contains(t, g.Email(), "@")
}

func TestGenerator_SameSeedSameValues(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	assert.Equal(t, a.CompanyName(), b.CompanyName())
	assert.Equal(t, a.PersonName(), b.PersonName())
}

func TestGenerator_Intn(t *testing.T) {
	g := NewGenerator(1)

	assert.Zero(t, g.Intn(0))
	assert.Zero(t, g.Intn(-3))
	assert.Zero(t, g.Intn(1))

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := g.Intn(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "every offset is reachable")
}
