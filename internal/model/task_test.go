package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForProgress(t *testing.T) {
	tests := []struct {
		progress int
		want     Status
	}{
		{0, StatusNew},
		{1, StatusInProgress},
		{50, StatusInProgress},
		{99, StatusInProgress},
		{100, StatusCompleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForProgress(tt.progress), "progress %d", tt.progress)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusNew.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
}

func TestSystemCategories(t *testing.T) {
	cats := SystemCategories()
	if assert.Len(t, cats, 2) {
		assert.Equal(t, "Personal", cats[0].Name)
		assert.Equal(t, "👤", cats[0].Icon)
		assert.Equal(t, "Work", cats[1].Name)
		assert.Equal(t, "💼", cats[1].Icon)
		assert.True(t, cats[0].IsSystem && cats[1].IsSystem)
	}
}
