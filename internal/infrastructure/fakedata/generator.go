// Package fakedata generates placeholder record content with gofakeit.
package fakedata

import (
	"sync"

	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/brianvoe/gofakeit/v6"
)

type generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewGenerator creates a records.Generator. A zero seed picks a random one.
func NewGenerator(seed int64) records.Generator {
	return &generator{faker: gofakeit.New(seed)}
}

// CompanyName returns a name with a legal suffix, e.g. "Acme Inc"
func (g *generator) CompanyName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Company() + " " + g.faker.CompanySuffix()
}

func (g *generator) PersonName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Name()
}

func (g *generator) Email() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Email()
}

func (g *generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Number(0, n-1)
}
