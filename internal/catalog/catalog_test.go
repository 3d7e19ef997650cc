package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SaveAndList(t *testing.T) {
	// Given: an empty catalog
	s, _ := openTestStore(t)
	ctx := context.Background()

	// When: persisting two descriptors
	require.NoError(t, s.Save(ctx, Record{
		Identifier: "people",
		EntityType: "NODES",
		Properties: []string{"name", "bio"},
		Analyzer:   "english",
		Partitions: 4,
	}))
	require.NoError(t, s.Save(ctx, Record{
		Identifier: "knows",
		EntityType: "RELATIONSHIPS",
		Properties: []string{"note"},
		Analyzer:   "standard",
		Partitions: 2,
	}))

	// Then: listing returns both ordered by identifier
	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "knows", records[0].Identifier)
	assert.Equal(t, "people", records[1].Identifier)
	assert.Equal(t, []string{"name", "bio"}, records[1].Properties)
	assert.Equal(t, 4, records[1].Partitions)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestStore_SaveDuplicateFails(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	rec := Record{Identifier: "people", EntityType: "NODES", Properties: []string{"name"}, Analyzer: "standard", Partitions: 1}
	require.NoError(t, s.Save(ctx, rec))

	err := s.Save(ctx, rec)
	require.Error(t, err)
	assert.Equal(t, gterrors.ErrCodeCatalog, gterrors.GetCode(err))
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Record{Identifier: "people", EntityType: "NODES", Properties: []string{"name"}, Analyzer: "standard", Partitions: 1}))
	require.NoError(t, s.Delete(ctx, "people"))
	require.NoError(t, s.Delete(ctx, "people"))

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_SurvivesReopen(t *testing.T) {
	// Given: a catalog with one descriptor, closed
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, Record{Identifier: "people", EntityType: "NODES", Properties: []string{"name"}, Analyzer: "swedish", Partitions: 3}))
	require.NoError(t, s.Close())

	// When: reopening from the same path
	s2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	// Then: the descriptor is still there
	records, err := s2.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "swedish", records[0].Analyzer)
	assert.Equal(t, 3, records[0].Partitions)
}
