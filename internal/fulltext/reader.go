package fulltext

import (
	"context"
	"fmt"
	"sync"

	index "github.com/blevesearch/bleve_index_api"

	"github.com/Aman-CERP/graphtext/internal/analyzer"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// partitionSnapshot is one partition's point-in-time reader. A nil reader
// means the partition was never written and is empty.
type partitionSnapshot struct {
	ordinal int
	reader  index.IndexReader
}

// Reader answers token queries against a single index. It snapshots every
// partition at open time: the view is fixed and unaffected by commits that
// happen afterward. Readers are safe for concurrent queries but must be
// released with Close to free per-partition resources.
type Reader struct {
	desc    Descriptor
	profile *analyzer.Profile
	snaps   []*partitionSnapshot

	mu     sync.Mutex
	closed bool
}

func newReader(desc Descriptor, profile *analyzer.Profile, snaps []*partitionSnapshot) *Reader {
	return &Reader{desc: desc, profile: profile, snaps: snaps}
}

// Query tokenizes text with the index's own analyzer and returns a lazy,
// finite, single-pass iterator over the ids of entities whose indexed
// properties contain any resulting term. Order is deterministic for a
// fixed reader and fixed query (partition ordinal order, first-match order
// within a partition) but carries no relevance ranking.
func (r *Reader) Query(ctx context.Context, text string) (*EntityIterator, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, gterrors.Newf(gterrors.ErrCodeReaderClosed,
			"reader for index %q is closed", r.desc.Identifier)
	}

	return &EntityIterator{
		ctx:    ctx,
		snaps:  r.snaps,
		fields: r.desc.Properties,
		terms:  r.profile.Tokenize(text),
	}, nil
}

// Close releases every partition snapshot. Queries issued after Close
// fail, and iterators already handed out must be drained before closing.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for _, s := range r.snaps {
		if s.reader == nil {
			continue
		}
		if err := s.reader.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close partition %d snapshot: %w", s.ordinal, err)
		}
	}
	return firstErr
}

// EntityIterator walks matching entity ids lazily: postings are pulled
// from one partition term reader at a time, so an abandoned iterator costs
// only what was already consumed. Entities matching several query terms
// are reported once.
type EntityIterator struct {
	ctx    context.Context
	snaps  []*partitionSnapshot
	fields []string
	terms  []string

	p    int // current partition
	t    int // current term within partition
	f    int // current field within term
	cur  index.TermFieldReader
	seen map[string]struct{} // doc ids reported for the current partition

	err  error
	done bool
}

// Next returns the next matching entity id. It returns false when the
// sequence is exhausted or an error occurred; check Err afterwards.
func (it *EntityIterator) Next() (uint64, bool) {
	if it.done || len(it.terms) == 0 {
		it.done = true
		return 0, false
	}

	for {
		if it.p >= len(it.snaps) {
			it.done = true
			return 0, false
		}

		snap := it.snaps[it.p]
		if snap.reader == nil {
			it.advancePartition()
			continue
		}

		if it.cur == nil {
			tfr, err := snap.reader.TermFieldReader(it.ctx,
				[]byte(it.terms[it.t]), it.fields[it.f], false, false, false)
			if err != nil {
				it.fail(fmt.Errorf("partition %d term read failed: %w", snap.ordinal, err))
				return 0, false
			}
			it.cur = tfr
			if it.seen == nil {
				it.seen = make(map[string]struct{})
			}
		}

		tfd, err := it.cur.Next(nil)
		if err != nil {
			it.fail(fmt.Errorf("partition %d postings read failed: %w", snap.ordinal, err))
			return 0, false
		}
		if tfd == nil {
			_ = it.cur.Close()
			it.cur = nil
			it.advanceCursor()
			continue
		}

		ext, err := snap.reader.ExternalID(tfd.ID)
		if err != nil {
			it.fail(fmt.Errorf("partition %d id resolve failed: %w", snap.ordinal, err))
			return 0, false
		}
		if _, dup := it.seen[ext]; dup {
			continue
		}
		it.seen[ext] = struct{}{}

		entityID, err := parseDocID(ext)
		if err != nil {
			it.fail(fmt.Errorf("malformed document id %q: %w", ext, err))
			return 0, false
		}
		return entityID, true
	}
}

// advanceCursor moves to the next (field, term) pair, rolling over to the
// next partition when the current one is exhausted.
func (it *EntityIterator) advanceCursor() {
	it.f++
	if it.f < len(it.fields) {
		return
	}
	it.f = 0
	it.t++
	if it.t < len(it.terms) {
		return
	}
	it.advancePartition()
}

func (it *EntityIterator) advancePartition() {
	it.p++
	it.t = 0
	it.f = 0
	it.seen = nil
}

func (it *EntityIterator) fail(err error) {
	it.err = err
	it.done = true
	if it.cur != nil {
		_ = it.cur.Close()
		it.cur = nil
	}
}

// Err returns the first error encountered during iteration.
func (it *EntityIterator) Err() error {
	return it.err
}

// Close releases the in-flight postings cursor of an abandoned iterator.
// Fully drained iterators are already released.
func (it *EntityIterator) Close() error {
	it.done = true
	if it.cur != nil {
		err := it.cur.Close()
		it.cur = nil
		return err
	}
	return nil
}

// All drains the iterator into a slice. Convenience for callers that want
// the complete result set.
func (it *EntityIterator) All() ([]uint64, error) {
	var ids []uint64
	for {
		id, ok := it.Next()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids, it.Err()
}
