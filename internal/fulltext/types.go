package fulltext

import (
	"sort"
	"strconv"
)

// EntityType is the graph entity scope of an index. An index covers nodes
// or relationships, never both.
type EntityType string

const (
	EntityNodes         EntityType = "NODES"
	EntityRelationships EntityType = "RELATIONSHIPS"
)

// Valid reports whether t is one of the two known scopes.
func (t EntityType) Valid() bool {
	return t == EntityNodes || t == EntityRelationships
}

// Descriptor describes one full-text index. The identifier is immutable
// after registration; the analyzer profile and partition count are fixed
// at creation (changing either means rebuilding the index).
type Descriptor struct {
	Identifier string     `json:"identifier"`
	EntityType EntityType `json:"entity_type"`
	Properties []string   `json:"properties"`
	Analyzer   string     `json:"analyzer"`
	Partitions int        `json:"partitions"`
}

// PropertyChange is one tuple from the commit event feed: the state of one
// property of one entity as of the enclosing committed transaction.
// A nil Value marks the property as absent.
//
// Feed contract: tuples arrive exactly once per committed transaction, in
// commit order, and only for committed state. When any indexed property of
// an entity changes, the feed carries the entity's complete current indexed
// property state (absent markers included), so the engine can replace the
// entity's document in full rather than merge field by field.
type PropertyChange struct {
	EntityID   uint64     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Key        string     `json:"key"`
	Value      any        `json:"value"`
}

// mutation is one document operation routed to a partition.
// A nil fields map is a delete.
type mutation struct {
	entityID uint64
	fields   map[string]string
}

// docID renders the bleve document id for an entity. Entity ids are never
// reused for a different entity while the database lives, so the mapping
// is stable.
func docID(entityID uint64) string {
	return strconv.FormatUint(entityID, 10)
}

// parseDocID is the inverse of docID.
func parseDocID(id string) (uint64, error) {
	return strconv.ParseUint(id, 10, 64)
}

// textValue coerces a property value to indexable text. Absent and
// non-text values are omitted from the document.
func textValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// buildMutations filters a commit's change set down to one index's scope
// and folds it into per-entity document mutations. An entity whose indexed
// properties are all absent becomes a delete; anything else is a full
// replace. The result is sorted by entity id so apply order is
// deterministic for a fixed change set.
func buildMutations(desc Descriptor, changes []PropertyChange) []mutation {
	indexed := make(map[string]struct{}, len(desc.Properties))
	for _, key := range desc.Properties {
		indexed[key] = struct{}{}
	}

	type docState struct {
		fields map[string]string
	}
	touched := make(map[uint64]*docState)

	for _, ch := range changes {
		if ch.EntityType != desc.EntityType {
			continue
		}
		if _, ok := indexed[ch.Key]; !ok {
			continue
		}

		state, ok := touched[ch.EntityID]
		if !ok {
			state = &docState{}
			touched[ch.EntityID] = state
		}

		text, ok := textValue(ch.Value)
		if !ok {
			continue // absent or non-text: field omitted
		}
		if state.fields == nil {
			state.fields = make(map[string]string)
		}
		state.fields[ch.Key] = text
	}

	muts := make([]mutation, 0, len(touched))
	for id, state := range touched {
		muts = append(muts, mutation{entityID: id, fields: state.fields})
	}
	sort.Slice(muts, func(i, j int) bool {
		return muts[i].entityID < muts[j].entityID
	})
	return muts
}
