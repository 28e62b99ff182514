package health

import "context"

// DBPinger checks catalog database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexReporter reports the state of one search index.
type IndexReporter interface {
	IndexName() string
	Size() int
}
