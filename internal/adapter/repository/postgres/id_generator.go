package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues ids for obligations, movements, batches and audit
// rows. ULIDs sort lexicographically by creation time, which keeps
// created_at index order and primary key order aligned.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
