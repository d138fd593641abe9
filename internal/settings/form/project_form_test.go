package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/settings/domain"
)

func TestFromProject_DisabledDefaultsToFalse(t *testing.T) {
	f := FromProject(domain.Project{ID: "p1", Name: "Bakery"})
	assert.False(t, f.Disabled)
	assert.Equal(t, "Bakery", f.Name)

	yes := true
	assert.True(t, FromProject(domain.Project{Disabled: &yes}).Disabled)
}

func TestProjectForm_Set(t *testing.T) {
	var f ProjectForm
	require.NoError(t, f.Set(FieldNotes, "open on sundays"))
	require.NoError(t, f.Set(FieldDisabled, "true"))
	require.NoError(t, f.Set(FieldTeam, "north"))

	assert.Equal(t, "open on sundays", f.Notes)
	assert.True(t, f.Disabled)

	err := f.Set(FieldDisabled, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, f.Set("color", "red"), domain.ErrInvalidInput)
}

func TestProjectForm_Update(t *testing.T) {
	f := ProjectForm{Name: "Bakery", Notes: "n", PlatformToken: "tok"}
	u := f.Update("(Phone||1)")
	assert.Equal(t, domain.ProjectUpdate{Name: "Bakery", Notes: "n", PlatformToken: "tok", Variables: "(Phone||1)"}, u)
}
