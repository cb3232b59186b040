package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "respond", TaskType: "dialogue-respond", ImplementationStatus: "completed", Timeout: "30s"},
			{ID: "end", TaskType: "dialogue-end-conversation", ImplementationStatus: "completed", Timeout: "10s"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, sample().Save(path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 2)
	assert.Equal(t, "dialogue-end-conversation", reg.Activities[0].TaskType)
	assert.NotEmpty(t, reg.LastUpdated)

	a, ok := reg.Find("dialogue-respond")
	assert.True(t, ok)
	assert.Equal(t, "respond", a.ID)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sample().Validate())

	reg := sample()
	reg.Activities = append(reg.Activities,
		Activity{ID: "dup", TaskType: "dialogue-end-conversation", ImplementationStatus: "planned"},
		Activity{ID: "bad", TaskType: "x", ImplementationStatus: "shipped", Timeout: "soon"},
	)
	err := reg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate taskType "dialogue-end-conversation"`)
	assert.Contains(t, err.Error(), `unknown implementationStatus "shipped"`)
	assert.Contains(t, err.Error(), `activity "bad": timeout`)
}

func TestDiff(t *testing.T) {
	other := &ActivityRegistry{Activities: []Activity{
		{TaskType: "dialogue-end-conversation"},
		{TaskType: "dialogue-start-conversation"},
	}}
	missing, extra := sample().Diff(other)
	assert.Equal(t, []string{"dialogue-respond"}, missing)
	assert.Equal(t, []string{"dialogue-start-conversation"}, extra)
}
