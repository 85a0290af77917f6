package dbmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", Operation("SELECT id FROM slot_drafts WHERE id = $1"))
	assert.Equal(t, "insert", Operation("  INSERT INTO slot_drafts (feature) VALUES ($1)"))
	assert.Equal(t, "unknown", Operation(""))
}
