package logger

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/philipp01105/easylog/core"
)

// Processor enriches a record before it reaches the handler
type Processor interface {
	Process(record core.Record) core.Record
}

// ProcessorFunc adapts a function to the Processor interface
type ProcessorFunc func(record core.Record) core.Record

// Process calls f(record)
func (f ProcessorFunc) Process(record core.Record) core.Record {
	return f(record)
}

// UIDProcessor tags records with extra.uid, an identifier shared by all
// records of the current unit of work. Reset starts a new one.
type UIDProcessor struct {
	length int

	mu  sync.RWMutex
	uid string
}

// NewUIDProcessor creates a processor with identifiers of length hex
// characters. Lengths outside 1..32 use 7.
func NewUIDProcessor(length int) *UIDProcessor {
	if length < 1 || length > 32 {
		length = 7
	}
	p := &UIDProcessor{length: length}
	p.uid = p.generate()
	return p
}

// Process adds the current identifier to the record's extra
func (p *UIDProcessor) Process(record core.Record) core.Record {
	n := len(record.Extra)
	record.Extra = append(record.Extra[:n:n], core.F("uid", p.UID()))
	return record
}

// UID returns the current identifier
func (p *UIDProcessor) UID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.uid
}

// Reset switches to a new identifier
func (p *UIDProcessor) Reset() {
	uid := p.generate()
	p.mu.Lock()
	p.uid = uid
	p.mu.Unlock()
}

func (p *UIDProcessor) generate() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:p.length]
}
