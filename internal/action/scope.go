package action

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scope lets a host wrap every top-level Run in its own transaction.
type Scope interface {
	BeginScope(title string) string
	EndScope(id string)
}

// Canceler is implemented by scopes that want to hear about runs that
// failed. Without it a failed run still ends its scope.
type Canceler interface {
	CancelScope(id string)
}

// NopScope ignores all hooks.
type NopScope struct{}

func (NopScope) BeginScope(string) string { return "" }

func (NopScope) EndScope(string) {}

// Entry is one transaction recorded by a Journal.
type Entry struct {
	ID       string
	Title    string
	Began    time.Time
	Ended    time.Time
	Canceled bool
}

// Open reports whether the transaction has not finished yet.
func (e Entry) Open() bool {
	return e.Ended.IsZero()
}

// Journal is an in-process transaction scope. It assigns every transaction a
// UUID, records when it began and ended and logs both.
type Journal struct {
	mu      sync.Mutex
	logger  *slog.Logger
	entries []Entry
	index   map[string]int
	now     func() time.Time
}

// NewJournal returns an empty journal logging to logger, or to the default
// logger when nil.
func NewJournal(logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		logger: logger,
		index:  make(map[string]int),
		now:    time.Now,
	}
}

func (j *Journal) BeginScope(title string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	id := uuid.NewString()
	j.index[id] = len(j.entries)
	j.entries = append(j.entries, Entry{ID: id, Title: title, Began: j.now()})
	j.logger.Debug("Transaction opened.", "id", id, "title", title)
	return id
}

func (j *Journal) EndScope(id string) {
	j.finish(id, false)
}

func (j *Journal) CancelScope(id string) {
	j.finish(id, true)
}

func (j *Journal) finish(id string, canceled bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	i, ok := j.index[id]
	if !ok || !j.entries[i].Open() {
		j.logger.Warn("Ignoring close of unknown transaction.", "id", id)
		return
	}
	e := &j.entries[i]
	e.Ended = j.now()
	e.Canceled = canceled
	j.logger.Debug("Transaction closed.", "id", id, "title", e.Title, "canceled", canceled, "duration", e.Ended.Sub(e.Began))
}

// Entries returns the recorded transactions, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}
