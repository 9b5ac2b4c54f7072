package normalize

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/metarh/vagas/internal/model"
)

var (
	_ model.IDGenerator = UUIDGenerator{}
	_ model.IDGenerator = (*SequenceGenerator)(nil)
)

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "<prefix>-1", "<prefix>-2", ... so repeated runs
// over the same feed produce the same identifiers.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}
