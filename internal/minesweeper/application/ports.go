package application

import historydomain "github.com/zjrosen/sweeper/internal/history/domain"

// Recorder persists finished games.
type Recorder interface {
	Save(record *historydomain.Record) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(record *historydomain.Record) error

// Save calls f(record).
func (f RecorderFunc) Save(record *historydomain.Record) error { return f(record) }
