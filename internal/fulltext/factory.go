package fulltext

import (
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/graphtext/internal/analyzer"
	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// Factory constructs Index values bound to durable storage under a root
// directory. A created Index is not yet registered with any Provider;
// registration is a separate explicit step so a caller can validate a new
// index before making it visible to queries.
type Factory struct {
	rootDir           string
	analyzers         *analyzer.Registry
	defaultPartitions int
}

// NewFactory creates a factory for the given storage root.
func NewFactory(rootDir string, analyzers *analyzer.Registry, defaultPartitions int) *Factory {
	if defaultPartitions < 1 {
		defaultPartitions = 1
	}
	return &Factory{
		rootDir:           rootDir,
		analyzers:         analyzers,
		defaultPartitions: defaultPartitions,
	}
}

// Create validates the descriptor inputs and builds a new Index. Partition
// directories under <root>/<identifier>/ are allocated lazily by the first
// write, so creating a descriptor is cheap and idempotent to retry.
func (f *Factory) Create(identifier string, entityType EntityType, properties []string, analyzerName string) (*Index, error) {
	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}
	if !entityType.Valid() {
		return nil, gterrors.Newf(gterrors.ErrCodeInvalidEntityType,
			"entity type must be NODES or RELATIONSHIPS, got %q", string(entityType))
	}
	if len(properties) == 0 {
		return nil, gterrors.Newf(gterrors.ErrCodeEmptyPropertySet,
			"index %q needs at least one property key", identifier)
	}
	props := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))
	for _, key := range properties {
		if key == "" {
			return nil, gterrors.Newf(gterrors.ErrCodeEmptyPropertySet,
				"index %q has an empty property key", identifier)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		props = append(props, key)
	}

	desc := Descriptor{
		Identifier: identifier,
		EntityType: entityType,
		Properties: props,
		Analyzer:   analyzerName,
		Partitions: f.defaultPartitions,
	}
	return f.Open(desc)
}

// Open builds an Index for an existing descriptor, reusing whatever
// partition state is on disk. Used both by Create and by Provider startup
// when re-registering persisted descriptors.
func (f *Factory) Open(desc Descriptor) (*Index, error) {
	profile, err := f.analyzers.Resolve(desc.Analyzer)
	if err != nil {
		return nil, err
	}
	if desc.Partitions < 1 {
		desc.Partitions = f.defaultPartitions
	}
	root := filepath.Join(f.rootDir, desc.Identifier)
	return newIndex(desc, profile, root), nil
}

// IndexDir returns the storage directory of an identifier.
func (f *Factory) IndexDir(identifier string) string {
	return filepath.Join(f.rootDir, identifier)
}

// validateIdentifier rejects identifiers that are empty or unsafe as a
// directory name.
func validateIdentifier(identifier string) error {
	if identifier == "" {
		return gterrors.InvalidIdentifier(identifier, "must not be empty")
	}
	if identifier == "." || identifier == ".." {
		return gterrors.InvalidIdentifier(identifier, "must not be a relative path element")
	}
	if strings.ContainsAny(identifier, `/\`) || strings.ContainsRune(identifier, filepath.Separator) {
		return gterrors.InvalidIdentifier(identifier, "must not contain path separators")
	}
	for _, r := range identifier {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return gterrors.InvalidIdentifier(identifier, "only letters, digits, '-', '_' and '.' are allowed")
		}
	}
	return nil
}
