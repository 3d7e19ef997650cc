// Package fulltext implements the transactional full-text index engine:
// named, partitioned text indexes kept synchronized with committed graph
// property changes, queried through point-in-time snapshot readers.
//
// The engine reconciles two consistency models. The graph side delivers a
// commit-ordered change feed; the index side is a set of segment stores
// with an append/flush/merge lifecycle. ApplyCommit sits on the commit's
// critical path and returns only once every affected partition has durably
// applied its mutations, so a caller that commits and then queries sees
// its own writes. Readers snapshot all partitions at open time and are
// unaffected by later commits.
package fulltext
