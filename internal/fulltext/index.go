package fulltext

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/graphtext/internal/analyzer"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// Index is one named, partitioned full-text index. It owns a fixed number
// of partitions decided at creation time and fans writes out to them;
// reads fan back in through a federated Reader. The partition count exists
// purely for write/read parallelism: resizing would mean reassigning every
// document, which is deferred to a rebuild.
type Index struct {
	desc    Descriptor
	profile *analyzer.Profile
	root    string

	partitions []*partition

	mu     sync.Mutex
	closed bool
}

func newIndex(desc Descriptor, profile *analyzer.Profile, root string) *Index {
	idx := &Index{
		desc:       desc,
		profile:    profile,
		root:       root,
		partitions: make([]*partition, desc.Partitions),
	}
	for i := range idx.partitions {
		idx.partitions[i] = newPartition(root, i, profile.NewIndexMapping())
	}
	return idx
}

// Descriptor returns a copy of the index descriptor.
func (ix *Index) Descriptor() Descriptor {
	d := ix.desc
	d.Properties = append([]string(nil), ix.desc.Properties...)
	return d
}

// Identifier returns the index identifier.
func (ix *Index) Identifier() string {
	return ix.desc.Identifier
}

// Type returns the entity scope of the index.
func (ix *Index) Type() EntityType {
	return ix.desc.EntityType
}

// partitionFor routes an entity to its partition. The routing is a pure
// function of the entity id, so updates and deletes always land on the
// partition a prior insert used.
func (ix *Index) partitionFor(entityID uint64) *partition {
	return ix.partitions[entityID%uint64(len(ix.partitions))]
}

// ApplyMutations applies one transaction's document mutations. Mutations
// are grouped by target partition and applied in parallel, one goroutine
// per affected partition; each partition's writer is serialized by its own
// mutex. The call returns only after every affected partition has durably
// applied its batch. On failure the error is scoped to this index.
func (ix *Index) ApplyMutations(ctx context.Context, txID uint64, muts []mutation) error {
	if err := ix.checkOpen(); err != nil {
		return err
	}
	if len(muts) == 0 {
		return nil
	}

	byPartition := make(map[*partition][]mutation)
	for _, mut := range muts {
		p := ix.partitionFor(mut.entityID)
		byPartition[p] = append(byPartition[p], mut)
	}

	// Plain group, no shared cancellation: a failing partition must not
	// abort its siblings mid-batch.
	var g errgroup.Group
	for p, work := range byPartition {
		p, work := p, work
		g.Go(func() error {
			if err := p.apply(work); err != nil {
				slog.Error("partition_apply_failed",
					slog.Uint64("tx_id", txID),
					slog.String("index", ix.desc.Identifier),
					slog.Int("partition", p.ordinal),
					slog.String("error", err.Error()))
				// A close racing the apply is a lifecycle error, not a
				// retryable durability failure.
				if gterrors.HasCode(err, gterrors.ErrCodeIndexClosed) {
					return err
				}
				return gterrors.ApplyFailed(ix.desc.Identifier, p.ordinal, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// OpenReader opens one snapshot reader per partition at a consistent
// point: each reflects every apply completed before this call returns, and
// none after. The caller owns the returned Reader and must Close it.
func (ix *Index) OpenReader(ctx context.Context) (*Reader, error) {
	if err := ix.checkOpen(); err != nil {
		return nil, err
	}

	snaps := make([]*partitionSnapshot, len(ix.partitions))
	var g errgroup.Group
	for i, p := range ix.partitions {
		i, p := i, p
		g.Go(func() error {
			r, err := p.snapshot()
			if err != nil {
				return gterrors.New(gterrors.ErrCodeReaderOpen, err.Error(), err).
					WithDetail("identifier", ix.desc.Identifier)
			}
			snaps[i] = &partitionSnapshot{ordinal: p.ordinal, reader: r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, s := range snaps {
			if s != nil && s.reader != nil {
				_ = s.reader.Close()
			}
		}
		return nil, err
	}

	return newReader(ix.desc, ix.profile, snaps), nil
}

// Flush forces every partition's segment store into existence and onto
// disk. Applies are already durable when they return; Flush exists so that
// a freshly created index can be materialized without a first write.
func (ix *Index) Flush(ctx context.Context) error {
	if err := ix.checkOpen(); err != nil {
		return err
	}

	var g errgroup.Group
	for _, p := range ix.partitions {
		p := p
		g.Go(func() error {
			_, err := p.ensureOpen()
			return err
		})
	}
	return g.Wait()
}

// DocCount sums live documents across partitions.
func (ix *Index) DocCount() (uint64, error) {
	if err := ix.checkOpen(); err != nil {
		return 0, err
	}

	var total uint64
	for _, p := range ix.partitions {
		n, err := p.docCount()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Close flushes and releases every partition exactly once. In-flight
// applies complete first; Close never interrupts them.
func (ix *Index) Close() error {
	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return nil
	}
	ix.closed = true
	ix.mu.Unlock()

	var firstErr error
	for _, p := range ix.partitions {
		if err := p.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (ix *Index) checkOpen() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return gterrors.Newf(gterrors.ErrCodeIndexClosed, "index %q is closed", ix.desc.Identifier)
	}
	return nil
}
