package fulltext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/graphtext/internal/analyzer"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

func newTestIndex(t *testing.T, partitions int, analyzerName string) *Index {
	t.Helper()

	analyzers, err := analyzer.NewRegistry(16)
	require.NoError(t, err)

	factory := NewFactory(t.TempDir(), analyzers, partitions)
	idx, err := factory.Create("people", EntityNodes, []string{"name", "bio"}, analyzerName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func upsert(id uint64, fields map[string]string) mutation {
	return mutation{entityID: id, fields: fields}
}

func queryAll(t *testing.T, idx *Index, text string) []uint64 {
	t.Helper()

	reader, err := idx.OpenReader(context.Background())
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	it, err := reader.Query(context.Background(), text)
	require.NoError(t, err)
	ids, err := it.All()
	require.NoError(t, err)
	return ids
}

func TestIndex_PartitionRoutingIsStable(t *testing.T) {
	idx := newTestIndex(t, 4, analyzer.ProfileStandard)

	for id := uint64(0); id < 100; id++ {
		first := idx.partitionFor(id)
		assert.Equal(t, int(id%4), first.ordinal)
		assert.Same(t, first, idx.partitionFor(id))
	}
}

func TestIndex_ApplyAndQueryAcrossPartitions(t *testing.T) {
	// Given: an index with 4 partitions
	idx := newTestIndex(t, 4, analyzer.ProfileStandard)

	// When: writing 8 entities, one per routing slot twice over
	var muts []mutation
	for id := uint64(1); id <= 8; id++ {
		muts = append(muts, upsert(id, map[string]string{
			"name": fmt.Sprintf("person%d", id),
			"bio":  "graph enthusiast",
		}))
	}
	require.NoError(t, idx.ApplyMutations(context.Background(), 1, muts))

	// Then: a shared token fans in from every partition
	ids := queryAll(t, idx, "enthusiast")
	assert.ElementsMatch(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, ids)

	// And: a unique token finds exactly its entity
	assert.Equal(t, []uint64{3}, queryAll(t, idx, "person3"))
}

func TestIndex_UpsertReplacesPriorDocument(t *testing.T) {
	// Given: an entity indexed with one value
	idx := newTestIndex(t, 4, analyzer.ProfileStandard)
	ctx := context.Background()

	require.NoError(t, idx.ApplyMutations(ctx, 1,
		[]mutation{upsert(8, map[string]string{"name": "alpha", "bio": "beta"})}))

	// When: updating the same entity with a new value set
	require.NoError(t, idx.ApplyMutations(ctx, 2,
		[]mutation{upsert(8, map[string]string{"name": "gamma"})}))

	// Then: the old tokens are gone, the new one matches, nothing duplicated
	assert.Empty(t, queryAll(t, idx, "alpha"))
	assert.Empty(t, queryAll(t, idx, "beta"))
	assert.Equal(t, []uint64{8}, queryAll(t, idx, "gamma"))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIndex_DeleteRemovesDocument(t *testing.T) {
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)
	ctx := context.Background()

	require.NoError(t, idx.ApplyMutations(ctx, 1,
		[]mutation{upsert(3, map[string]string{"name": "vanishing"})}))
	require.Equal(t, []uint64{3}, queryAll(t, idx, "vanishing"))

	// Deleting an entity removes it; deleting again is not an error.
	require.NoError(t, idx.ApplyMutations(ctx, 2, []mutation{{entityID: 3}}))
	assert.Empty(t, queryAll(t, idx, "vanishing"))
	require.NoError(t, idx.ApplyMutations(ctx, 3, []mutation{{entityID: 3}}))
}

func TestIndex_ReaderSnapshotIsolation(t *testing.T) {
	// Given: an index with one entity
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)
	ctx := context.Background()

	require.NoError(t, idx.ApplyMutations(ctx, 1,
		[]mutation{upsert(1, map[string]string{"name": "original"})}))

	// When: opening a reader, then applying a later commit
	reader, err := idx.OpenReader(ctx)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	require.NoError(t, idx.ApplyMutations(ctx, 2,
		[]mutation{upsert(2, map[string]string{"name": "original"})}))

	// Then: the old reader sees only the first commit even though the
	// query runs after the second returned
	it, err := reader.Query(ctx, "original")
	require.NoError(t, err)
	ids, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	// And: a fresh reader sees both
	assert.ElementsMatch(t, []uint64{1, 2}, queryAll(t, idx, "original"))
}

func TestIndex_QueryAfterReaderCloseFails(t *testing.T) {
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)

	reader, err := idx.OpenReader(context.Background())
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	_, err = reader.Query(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, gterrors.ErrCodeReaderClosed, gterrors.GetCode(err))

	// Closing again is a no-op.
	assert.NoError(t, reader.Close())
}

func TestIndex_LazyAllocationAndFlush(t *testing.T) {
	// Given: a freshly created index
	analyzers, err := analyzer.NewRegistry(16)
	require.NoError(t, err)
	root := t.TempDir()
	factory := NewFactory(root, analyzers, 3)

	idx, err := factory.Create("people", EntityNodes, []string{"name"}, analyzer.ProfileStandard)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	// Then: no partition directories exist before the first write
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// When: flushing
	require.NoError(t, idx.Flush(context.Background()))

	// Then: every partition store is materialized
	for ordinal := 0; ordinal < 3; ordinal++ {
		dir := filepath.Join(root, "people", fmt.Sprintf("partition-%d", ordinal))
		_, err := os.Stat(dir)
		assert.NoError(t, err, "partition-%d should exist", ordinal)
	}
}

func TestIndex_EmptyIndexQueriesAsEmpty(t *testing.T) {
	// A never-written index answers queries with an empty sequence.
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)
	assert.Empty(t, queryAll(t, idx, "anything"))
}

func TestIndex_CloseIsIdempotentAndFailsFurtherApplies(t *testing.T) {
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)

	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	err := idx.ApplyMutations(context.Background(), 1,
		[]mutation{upsert(1, map[string]string{"name": "late"})})
	require.Error(t, err)
	assert.Equal(t, gterrors.ErrCodeIndexClosed, gterrors.GetCode(err))

	_, err = idx.OpenReader(context.Background())
	require.Error(t, err)
}

func TestIndex_ClosedPartitionErrorIsNotRetryable(t *testing.T) {
	// A close racing an apply surfaces as a lifecycle error, never as a
	// retryable durability failure.
	idx := newTestIndex(t, 2, analyzer.ProfileStandard)

	require.NoError(t, idx.partitions[1].close())

	err := idx.ApplyMutations(context.Background(), 1,
		[]mutation{upsert(1, map[string]string{"name": "late"})})
	require.Error(t, err)
	assert.True(t, gterrors.HasCode(err, gterrors.ErrCodeIndexClosed))
	assert.False(t, gterrors.HasCode(err, gterrors.ErrCodePartitionApply))
	assert.False(t, gterrors.IsRetryable(err))
}

func TestIndex_StopWordOnlyQueryIsEmptyNotError(t *testing.T) {
	// With the english profile, a query of pure stop words analyzes to
	// zero terms and yields an empty sequence.
	analyzers, err := analyzer.NewRegistry(16)
	require.NoError(t, err)
	factory := NewFactory(t.TempDir(), analyzers, 2)
	idx, err := factory.Create("people", EntityNodes, []string{"name"}, analyzer.ProfileEnglish)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	require.NoError(t, idx.ApplyMutations(context.Background(), 1,
		[]mutation{upsert(1, map[string]string{"name": "Hello and hello again, in the end."})}))

	assert.Empty(t, queryAll(t, idx, "and"))
	assert.Empty(t, queryAll(t, idx, "the"))
	assert.Equal(t, []uint64{1}, queryAll(t, idx, "hello"))
}
