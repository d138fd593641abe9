package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/settings/domain"
)

func loadedTags() *Collection[domain.Tag] {
	c := NewCollection(TagKind("p1"))
	c.Reset([]domain.Tag{
		{ID: domain.Persisted("t1"), ProjectID: "p1", Name: "Sale", Keyword: "sale", Color: "#ff0000"},
		{ID: domain.Persisted("t2"), ProjectID: "p1", Name: "Support", Keyword: "help", Color: "#00ff00"},
	})
	return c
}

func TestCollection_NoEditsNoPlan(t *testing.T) {
	c := loadedTags()
	assert.True(t, c.Diff().Empty())
	assert.False(t, c.Dirty())
}

func TestCollection_UpdateDetection(t *testing.T) {
	c := loadedTags()
	t1 := domain.Persisted("t1")

	require.True(t, c.Edit(t1, TagName, "Sale!"))
	plan := c.Diff()
	require.Len(t, plan.Update, 1)
	assert.Equal(t, "Sale!", plan.Update[0].Name)
	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.DeleteID)

	require.True(t, c.Edit(t1, TagName, "Sale"))
	assert.Empty(t, c.Diff().Update)
}

func TestCollection_DiffIsIdempotent(t *testing.T) {
	c := loadedTags()
	c.Edit(domain.Persisted("t2"), TagKeyword, "support")
	added := c.Add()
	c.Edit(added.ID, TagName, "New")
	c.Edit(added.ID, TagKeyword, "new")
	c.Remove(domain.Persisted("t1"))

	first := c.Diff()
	second := c.Diff()
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.Len())
}

func TestCollection_PendingAddThenRemoveLeavesNoTrace(t *testing.T) {
	c := loadedTags()
	added := c.Add()
	c.Edit(added.ID, TagName, "Temp")
	c.Edit(added.ID, TagKeyword, "temp")

	require.True(t, c.Remove(added.ID))
	plan := c.Diff()
	assert.True(t, plan.Empty())
	assert.Empty(t, c.DeletedIDs())
}

func TestCollection_RemovePersisted(t *testing.T) {
	c := loadedTags()
	require.True(t, c.Remove(domain.Persisted("t2")))
	assert.False(t, c.Remove(domain.Persisted("t2")))

	plan := c.Diff()
	assert.Equal(t, []domain.ID{domain.Persisted("t2")}, plan.DeleteID)
	assert.Len(t, c.Items(), 1)
}

func TestCollection_InvalidPendingSkipped(t *testing.T) {
	c := loadedTags()
	added := c.Add()
	c.Edit(added.ID, TagName, "Only name")

	assert.Empty(t, c.Diff().Create)

	c.Edit(added.ID, TagKeyword, "kw")
	plan := c.Diff()
	require.Len(t, plan.Create, 1)
	assert.Equal(t, DefaultTagColor, plan.Create[0].Color)
	assert.Equal(t, "p1", plan.Create[0].ProjectID)
}

func TestCollection_UnknownPersistedTreatedAsCreate(t *testing.T) {
	c := loadedTags()
	c.Append(domain.Tag{ID: domain.Persisted("t9"), Name: "Stray", Keyword: "x"})
	plan := c.Diff()
	require.Len(t, plan.Create, 1)
	assert.Equal(t, domain.Persisted("t9"), plan.Create[0].ID)
}

func TestCollection_EditUnknownIsNoop(t *testing.T) {
	c := loadedTags()
	assert.False(t, c.Edit(domain.Persisted("missing"), TagName, "x"))
	assert.False(t, c.Edit(domain.NewPending(), TagName, "x"))
	assert.True(t, c.Diff().Empty())
}

func TestCollection_NoteNullNormalization(t *testing.T) {
	c := loadedTags()
	t1 := domain.Persisted("t1")

	c.Edit(t1, TagNote, "")
	assert.True(t, c.Diff().Empty(), "blank note equals missing note")

	c.Edit(t1, TagNote, "vip only")
	assert.Len(t, c.Diff().Update, 1)
}

func TestCollection_ResetClearsDeletions(t *testing.T) {
	c := loadedTags()
	c.Remove(domain.Persisted("t1"))
	c.Reset([]domain.Tag{{ID: domain.Persisted("t1"), Name: "Sale", Keyword: "sale"}})
	assert.Empty(t, c.DeletedIDs())
	assert.True(t, c.Diff().Empty())
}

func TestCollection_PendingIDNeverMatchesPersisted(t *testing.T) {
	c := loadedTags()
	p := domain.NewPending()
	assert.False(t, c.Edit(domain.Persisted(p.Value()), TagName, "x"))
}

func TestValueKind(t *testing.T) {
	c := NewCollection(ValueKind("p1"))
	def := domain.Persisted("d1")
	c.Reset([]domain.GlobalVariableValue{{ID: domain.Persisted("v1"), DefinitionID: def, Value: "hello"}})

	c.Edit(domain.Persisted("v1"), ValueText, " hello ")
	assert.True(t, c.Diff().Empty(), "surrounding whitespace is not a change")

	v := c.Kind().New()
	v.DefinitionID = domain.Persisted("d2")
	c.Append(v)
	assert.Empty(t, c.Diff().Create, "blank lazily created value is not written")

	c.Edit(v.ID, ValueText, "world")
	assert.Len(t, c.Diff().Create, 1)
}
