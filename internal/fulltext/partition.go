package fulltext

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	index "github.com/blevesearch/bleve_index_api"

	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// partition is one physical segment store of an index: a bleve index at
// <root>/<identifier>/partition-<ordinal> with an exclusively-owned write
// path. The store is allocated lazily on first use so that creating a
// descriptor without writing to it stays cheap.
type partition struct {
	ordinal int
	path    string
	mapping mapping.IndexMapping

	// writeMu serializes the apply path (single-writer discipline).
	// Snapshots never take it; bleve supports concurrent read and batch.
	writeMu sync.Mutex

	// stateMu guards idx and closed transitions only.
	stateMu sync.Mutex
	idx     bleve.Index
	closed  bool
}

func newPartition(root string, ordinal int, m mapping.IndexMapping) *partition {
	return &partition{
		ordinal: ordinal,
		path:    filepath.Join(root, fmt.Sprintf("partition-%d", ordinal)),
		mapping: m,
	}
}

// ensureOpen opens or creates the segment store.
func (p *partition) ensureOpen() (bleve.Index, error) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.openLocked(true)
}

// store returns the segment store if it exists on disk, opening it if
// needed. Returns (nil, nil) when the partition was never written: a
// reader treats that as empty without allocating directories.
func (p *partition) store() (bleve.Index, error) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.openLocked(false)
}

func (p *partition) openLocked(create bool) (bleve.Index, error) {
	if p.closed {
		return nil, gterrors.Newf(gterrors.ErrCodeIndexClosed, "partition %d is closed", p.ordinal)
	}
	if p.idx != nil {
		return p.idx, nil
	}

	if !create {
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			return nil, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create partition parent dir: %w", err)
	}

	idx, err := bleve.Open(p.path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(p.path, p.mapping)
	} else if err != nil {
		slog.Warn("partition_open_failed",
			slog.String("path", p.path),
			slog.String("error", err.Error()))
		return nil, gterrors.Wrap(gterrors.ErrCodeCorruptIndex, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open partition store %s: %w", p.path, err)
	}

	p.idx = idx
	return idx, nil
}

// apply executes one batch of document mutations. The batch is durable
// when this returns: the default scorch persister acknowledges the batch
// only after it hits disk.
func (p *partition) apply(muts []mutation) error {
	idx, err := p.ensureOpen()
	if err != nil {
		return err
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	batch := idx.NewBatch()
	for _, mut := range muts {
		if mut.fields == nil {
			batch.Delete(docID(mut.entityID))
			continue
		}
		if err := batch.Index(docID(mut.entityID), mut.fields); err != nil {
			return fmt.Errorf("failed to stage entity %d: %w", mut.entityID, err)
		}
	}

	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to apply batch: %w", err)
	}
	return nil
}

// snapshot opens a point-in-time reader over the segment store. The
// returned reader observes exactly the applies completed before this call
// and nothing after. A nil reader means the partition is empty.
func (p *partition) snapshot() (index.IndexReader, error) {
	idx, err := p.store()
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}

	advanced, err := idx.Advanced()
	if err != nil {
		return nil, fmt.Errorf("failed to access partition %d internals: %w", p.ordinal, err)
	}
	reader, err := advanced.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot partition %d: %w", p.ordinal, err)
	}
	return reader, nil
}

// docCount reports the number of live documents, zero if never written.
func (p *partition) docCount() (uint64, error) {
	idx, err := p.store()
	if err != nil {
		return 0, err
	}
	if idx == nil {
		return 0, nil
	}
	return idx.DocCount()
}

// close flushes and releases the segment store. It waits for an in-flight
// apply to finish rather than interrupting it.
func (p *partition) close() error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.idx != nil {
		err := p.idx.Close()
		p.idx = nil
		if err != nil {
			return fmt.Errorf("failed to close partition %d: %w", p.ordinal, err)
		}
	}
	return nil
}
