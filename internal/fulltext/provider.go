package fulltext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/Aman-CERP/graphtext/internal/analyzer"
	"github.com/Aman-CERP/graphtext/internal/catalog"
	"github.com/Aman-CERP/graphtext/internal/config"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

const (
	lockFileName    = ".graphtext.lock"
	catalogFileName = "catalog.db"
)

// Provider is the registry of live indexes and the single ingress point
// for transaction commit events. It exclusively owns every index it holds:
// nothing else may close one. The graph engine registers the Provider as a
// commit listener and calls ApplyCommit synchronously on the commit path,
// so a caller that commits and then opens a reader observes its own
// writes.
type Provider struct {
	rootDir   string
	factory   *Factory
	analyzers *analyzer.Registry
	catalog   *catalog.Store
	fileLock  *flock.Flock
	log       *slog.Logger

	mu      sync.RWMutex
	indexes map[string]*Index
	closed  bool
}

// Open opens a Provider over a storage root, taking an exclusive
// cross-process lock and re-registering every descriptor persisted in the
// catalog. The logger may be nil, in which case the default logger is
// used.
func Open(cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rootDir := cfg.Storage.RootDir
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", rootDir, err)
	}

	// Single engine process per storage root: partition writers must
	// never be shared across processes.
	fileLock := flock.New(filepath.Join(rootDir, lockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, gterrors.Wrap(gterrors.ErrCodeStoreLocked, err)
	}
	if !locked {
		return nil, gterrors.Newf(gterrors.ErrCodeStoreLocked,
			"storage root %s is locked by another process", rootDir)
	}

	analyzers, err := analyzer.NewRegistry(cfg.Index.QueryCacheSize)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, err
	}

	cat, err := catalog.Open(filepath.Join(rootDir, catalogFileName))
	if err != nil {
		_ = fileLock.Unlock()
		return nil, err
	}

	p := &Provider{
		rootDir:   rootDir,
		factory:   NewFactory(rootDir, analyzers, cfg.Index.PartitionCount),
		analyzers: analyzers,
		catalog:   cat,
		fileLock:  fileLock,
		log:       logger,
		indexes:   make(map[string]*Index),
	}

	if err := p.restore(); err != nil {
		_ = cat.Close()
		_ = fileLock.Unlock()
		return nil, err
	}
	return p, nil
}

// restore re-registers every persisted descriptor.
func (p *Provider) restore() error {
	records, err := p.catalog.List(context.Background())
	if err != nil {
		return err
	}
	for _, rec := range records {
		idx, err := p.factory.Open(Descriptor{
			Identifier: rec.Identifier,
			EntityType: EntityType(rec.EntityType),
			Properties: rec.Properties,
			Analyzer:   rec.Analyzer,
			Partitions: rec.Partitions,
		})
		if err != nil {
			return fmt.Errorf("failed to restore index %q: %w", rec.Identifier, err)
		}
		p.indexes[rec.Identifier] = idx
		p.log.Info("index_restored",
			slog.String("index", rec.Identifier),
			slog.String("entity_type", rec.EntityType),
			slog.Int("partitions", rec.Partitions))
	}
	return nil
}

// Factory exposes the provider's index factory.
func (p *Provider) Factory() *Factory {
	return p.factory
}

// Analyzers exposes the analyzer profile registry.
func (p *Provider) Analyzers() *analyzer.Registry {
	return p.analyzers
}

// CreateIndex validates, creates, persists and registers a new index in
// one step. This is the creation API most callers want; Factory.Create
// plus Register remains available for callers that validate before
// registering.
func (p *Provider) CreateIndex(ctx context.Context, identifier string, entityType EntityType, properties []string, analyzerName string) (*Index, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, p.closedErr()
	}
	if _, exists := p.indexes[identifier]; exists {
		return nil, gterrors.DuplicateIndex(identifier)
	}

	idx, err := p.factory.Create(identifier, entityType, properties, analyzerName)
	if err != nil {
		return nil, err
	}

	desc := idx.Descriptor()
	if err := p.catalog.Save(ctx, catalog.Record{
		Identifier: desc.Identifier,
		EntityType: string(desc.EntityType),
		Properties: desc.Properties,
		Analyzer:   desc.Analyzer,
		Partitions: desc.Partitions,
	}); err != nil {
		return nil, err
	}

	p.indexes[identifier] = idx
	p.log.Info("index_created",
		slog.String("index", identifier),
		slog.String("entity_type", string(entityType)),
		slog.String("analyzer", desc.Analyzer),
		slog.Int("partitions", desc.Partitions))
	return idx, nil
}

// Register adds an already-built index to the registry without persisting
// its descriptor. Fails if the identifier is taken.
func (p *Provider) Register(idx *Index) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return p.closedErr()
	}
	if _, exists := p.indexes[idx.Identifier()]; exists {
		return gterrors.DuplicateIndex(idx.Identifier())
	}
	p.indexes[idx.Identifier()] = idx
	return nil
}

// Lookup returns the index registered under identifier, checking that its
// entity scope matches the expected type.
func (p *Provider) Lookup(identifier string, expectedType EntityType) (*Index, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, p.closedErr()
	}
	idx, ok := p.indexes[identifier]
	if !ok {
		return nil, gterrors.IndexNotFound(identifier)
	}
	if idx.Type() != expectedType {
		return nil, gterrors.TypeMismatch(identifier, string(expectedType), string(idx.Type()))
	}
	return idx, nil
}

// List returns the descriptors of all registered indexes, ordered by
// identifier.
func (p *Provider) List() ([]Descriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, p.closedErr()
	}
	descriptors := make([]Descriptor, 0, len(p.indexes))
	for _, idx := range p.indexes {
		descriptors = append(descriptors, idx.Descriptor())
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Identifier < descriptors[j].Identifier
	})
	return descriptors, nil
}

// ApplyCommit applies one committed transaction's property changes to
// every registered index. The call is synchronous with respect to the
// committing caller: it returns only after every affected partition has
// durably applied its mutations, so commit-then-read-own-write holds.
// Different indexes apply in parallel; a failure in one index is scoped to
// it and never aborts siblings. The first failure is returned after all
// indexes finish; the engine never reports success for a mutation it
// failed to make durable.
func (p *Provider) ApplyCommit(ctx context.Context, txID uint64, changes []PropertyChange) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return p.closedErr()
	}
	targets := make([]*Index, 0, len(p.indexes))
	for _, idx := range p.indexes {
		targets = append(targets, idx)
	}
	p.mu.RUnlock()

	if len(changes) == 0 || len(targets) == 0 {
		return nil
	}

	start := time.Now()

	// One goroutine per index with work to do. No shared cancellation:
	// a failing index must not abort a sibling's in-flight batch.
	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, idx := range targets {
		muts := buildMutations(idx.desc, changes)
		if len(muts) == 0 {
			continue
		}
		wg.Add(1)
		i, idx := i, idx
		go func() {
			defer wg.Done()
			errs[i] = idx.ApplyMutations(ctx, txID, muts)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			attrs := []any{
				slog.Uint64("tx_id", txID),
				slog.String("index", targets[i].Identifier()),
			}
			for k, v := range gterrors.FormatForLog(err) {
				attrs = append(attrs, slog.Any(k, v))
			}
			p.log.Error("commit_apply_failed", attrs...)
			return err
		}
	}

	p.log.Debug("commit_applied",
		slog.Uint64("tx_id", txID),
		slog.Int("changes", len(changes)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// GetReader opens a federated reader snapshotting all partitions of the
// index at the moment of the call.
func (p *Provider) GetReader(ctx context.Context, identifier string, expectedType EntityType) (*Reader, error) {
	idx, err := p.Lookup(identifier, expectedType)
	if err != nil {
		return nil, err
	}
	return idx.OpenReader(ctx)
}

// Query is a convenience that opens a snapshot reader, runs one token
// query, drains it and closes the reader.
func (p *Provider) Query(ctx context.Context, identifier string, expectedType EntityType, text string) ([]uint64, error) {
	reader, err := p.GetReader(ctx, identifier, expectedType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	it, err := reader.Query(ctx, text)
	if err != nil {
		return nil, err
	}
	return it.All()
}

// Drop closes and deregisters an index, removes its persisted descriptor
// and deletes its on-disk partition directories.
func (p *Provider) Drop(ctx context.Context, identifier string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.closedErr()
	}
	idx, ok := p.indexes[identifier]
	if !ok {
		p.mu.Unlock()
		return gterrors.IndexNotFound(identifier)
	}
	delete(p.indexes, identifier)
	p.mu.Unlock()

	if err := p.catalog.Delete(ctx, identifier); err != nil {
		return err
	}
	if err := idx.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(p.factory.IndexDir(identifier)); err != nil {
		return fmt.Errorf("failed to delete index directory: %w", err)
	}
	p.log.Info("index_dropped", slog.String("index", identifier))
	return nil
}

// Close flushes and releases every registered index exactly once, then the
// catalog and the storage lock. Subsequent calls are no-ops. In-flight
// applies complete before their partitions are released; on-disk state is
// kept so indexes can be re-registered after restart.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	indexes := make([]*Index, 0, len(p.indexes))
	for _, idx := range p.indexes {
		indexes = append(indexes, idx)
	}
	p.mu.Unlock()

	var firstErr error
	for _, idx := range indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := p.catalog.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := p.fileLock.Unlock(); err != nil && firstErr == nil {
		firstErr = err
	}

	p.log.Info("provider_closed", slog.Int("indexes", len(indexes)))
	return firstErr
}

func (p *Provider) closedErr() error {
	return gterrors.Newf(gterrors.ErrCodeProviderClosed, "provider is closed")
}
