package service_test

import (
	"strings"
	"testing"

	"github.com/roomvista/decor-services/visualizer/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestCatalog_Validate(t *testing.T) {
	catalog := service.NewCatalogService()

	t.Run("accepts a known combination", func(t *testing.T) {
		assert.NoError(t, catalog.Validate("japandi", "bedroom", "staging"))
	})

	t.Run("rejects unknown style", func(t *testing.T) {
		assert.Error(t, catalog.Validate("brutalist", "bedroom", "staging"))
	})

	t.Run("rejects unknown room type", func(t *testing.T) {
		assert.Error(t, catalog.Validate("japandi", "garage", "staging"))
	})

	t.Run("rejects unknown transform mode", func(t *testing.T) {
		assert.Error(t, catalog.Validate("japandi", "bedroom", "repaint"))
	})
}

func TestCatalog_BuildPrompt(t *testing.T) {
	catalog := service.NewCatalogService()

	t.Run("redesign prompt carries room and style", func(t *testing.T) {
		prompt, err := catalog.BuildPrompt("industrial", "living-room", "redesign")

		assert.NoError(t, err)
		assert.Contains(t, prompt, "living room")
		assert.Contains(t, prompt, "industrial loft")
		assert.Contains(t, prompt, "redesign")
	})

	t.Run("staging prompt keeps the structure unchanged", func(t *testing.T) {
		prompt, err := catalog.BuildPrompt("coastal", "bedroom", "staging")

		assert.NoError(t, err)
		assert.Contains(t, prompt, "stage")
		assert.Contains(t, prompt, "bedroom")
	})

	t.Run("declutter prompt keeps existing furniture", func(t *testing.T) {
		prompt, err := catalog.BuildPrompt("minimalist", "kitchen", "declutter")

		assert.NoError(t, err)
		assert.Contains(t, prompt, "clutter")
		assert.Contains(t, prompt, "keep existing furniture")
	})

	t.Run("invalid selection yields no prompt", func(t *testing.T) {
		prompt, err := catalog.BuildPrompt("minimalist", "garage", "redesign")

		assert.Error(t, err)
		assert.Empty(t, prompt)
	})
}

func TestCatalog_Listings(t *testing.T) {
	catalog := service.NewCatalogService()

	styles := catalog.ListStyles()
	assert.NotEmpty(t, styles)
	assert.True(t, sortedStrings(styles))

	rooms := catalog.ListRoomTypes()
	assert.NotEmpty(t, rooms)
	assert.True(t, sortedStrings(rooms))
}

func sortedStrings(values []string) bool {
	for i := 1; i < len(values); i++ {
		if strings.Compare(values[i-1], values[i]) > 0 {
			return false
		}
	}
	return true
}
