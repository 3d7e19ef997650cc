package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/graphtext/internal/fulltext"
)

func TestRenderer_IndexTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.IndexTable([]fulltext.Descriptor{
		{Identifier: "people", EntityType: fulltext.EntityNodes, Properties: []string{"name", "bio"}, Analyzer: "english", Partitions: 4},
		{Identifier: "knows", EntityType: fulltext.EntityRelationships, Properties: []string{"note"}, Analyzer: "standard", Partitions: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "people")
	assert.Contains(t, out, "name, bio")
	assert.Contains(t, out, "RELATIONSHIPS")
}

func TestRenderer_IndexTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.IndexTable(nil)
	assert.Contains(t, buf.String(), "no indexes")
}

func TestRenderer_QueryResults(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.QueryResults("people", []uint64{7, 42}, 1500*time.Microsecond)

	out := buf.String()
	assert.Contains(t, out, "7\n")
	assert.Contains(t, out, "42\n")
	assert.Contains(t, out, `2 entities from "people"`)
}

func TestIsTTY_FalseForBuffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
