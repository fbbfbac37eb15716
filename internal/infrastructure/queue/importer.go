package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Importer bulk-loads passenger records through a fixed set of workers,
// sharded by passenger name so the insert load spreads evenly while rows of
// the same name stay ordered.
type Importer struct {
	workers  []chan domain.Passenger
	repo     ports.PassengerRepository
	log      zerolog.Logger
	wg       sync.WaitGroup
	imported atomic.Int64
	failed   atomic.Int64
}

// NewImporter creates an Importer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewImporter(numWorkers int, repo ports.PassengerRepository, log zerolog.Logger) *Importer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	imp := &Importer{
		workers: make([]chan domain.Passenger, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range imp.workers {
		imp.workers[i] = make(chan domain.Passenger, channelBuffer)
	}
	return imp
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when it is closed or ctx is cancelled.
func (imp *Importer) Start(ctx context.Context) {
	for i, ch := range imp.workers {
		imp.wg.Add(1)
		go imp.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a passenger to the worker responsible for it. Blocks while
// that worker's buffer is full; returns the context error when ctx ends
// before the record is accepted, so a cancelled import cannot hang the
// producer on a full buffer with no receiver left.
func (imp *Importer) Enqueue(ctx context.Context, p domain.Passenger) error {
	select {
	case imp.workers[imp.shardIndex(p.Name)] <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more passengers will be enqueued and waits for the
// workers to finish. Returns the number of imported and failed records.
func (imp *Importer) Close() (imported, failed int64) {
	for _, ch := range imp.workers {
		close(ch)
	}
	imp.wg.Wait()
	return imp.imported.Load(), imp.failed.Load()
}

// shardIndex maps a passenger name deterministically to a worker index.
func (imp *Importer) shardIndex(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % uint32(len(imp.workers)))
}

func (imp *Importer) runWorker(ctx context.Context, id int, ch <-chan domain.Passenger) {
	defer imp.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-ch:
			if !ok {
				return
			}
			if _, err := imp.repo.Insert(ctx, &p); err != nil {
				imp.failed.Add(1)
				imp.log.Error().Err(err).
					Str("name", p.Name).
					Int("worker_id", id).
					Msg("passenger import failed")
				continue
			}
			imp.imported.Add(1)
		}
	}
}
