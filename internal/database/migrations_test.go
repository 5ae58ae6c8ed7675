package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_Ordered(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, m.Description)
		assert.NotNil(t, m.Up)
		assert.NotEmpty(t, m.Description)
	}

	assert.Equal(t, len(migrations), LatestVersion())
}

func TestPending(t *testing.T) {
	assert.Len(t, pending(0), len(migrations))
	assert.Len(t, pending(2), len(migrations)-2)
	assert.Empty(t, pending(LatestVersion()))
}
