package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoGetOrCreate(t *testing.T) {
	m := newMemo[*ModelDescriptor]("model")
	calls := 0
	create := func() *ModelDescriptor {
		calls++
		return &ModelDescriptor{Name: "User"}
	}

	first, created := m.getOrCreate("a.User", create)
	require.True(t, created)
	second, created := m.getOrCreate("a.User", create)
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Created())
	assert.True(t, m.Has("a.User"))
}

func TestMemoSelfReference(t *testing.T) {
	m := newMemo[*ModelDescriptor]("model")
	d, _ := m.getOrCreate("a.Node", func() *ModelDescriptor { return &ModelDescriptor{Name: "Node"} })

	// A descriptor completed after it is stored sees itself on lookup.
	self, err := m.Lookup("a.Node")
	require.NoError(t, err)
	d.Fields = append(d.Fields, &ModelField{Name: "Next"})
	assert.Same(t, d, self)
	assert.Len(t, self.Fields, 1)
}

func TestMemoLookupDangling(t *testing.T) {
	m := newMemo[*DtoDescriptor]("dto")
	d, err := m.Lookup("a.UserDto")
	assert.Nil(t, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Contains(t, err.Error(), "dto a.UserDto")
}

func TestMemoKeys(t *testing.T) {
	m := newMemo[int]("model")
	for i, k := range []string{"c", "a", "b", "a"} {
		m.getOrCreate(k, func() int { return i })
	}
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	keys := m.Keys()
	keys[0] = "z"
	assert.Equal(t, "c", m.Keys()[0], "Keys returns a copy")
}

func TestRegistryRollback(t *testing.T) {
	r := NewRegistry()
	user := func() *ModelDescriptor { return &ModelDescriptor{Name: "User"} }
	r.Models.getOrCreate("a.User", user)
	mark := r.mark()

	r.Models.getOrCreate("a.Group", func() *ModelDescriptor { return &ModelDescriptor{Name: "Group"} })
	r.Dtos.getOrCreate("a.Group", func() *DtoDescriptor { return &DtoDescriptor{Name: "GroupDto"} })
	r.Converters.getOrCreate("a.Group", func() *ConverterDescriptor { return &ConverterDescriptor{} })
	r.rollback(mark)

	assert.Equal(t, []string{"a.User"}, r.Models.Keys())
	assert.False(t, r.Models.Has("a.Group"))
	assert.Zero(t, r.Dtos.Len())
	assert.Zero(t, r.Converters.Len())
	assert.Equal(t, 2, r.Models.Created(), "rolled back creations stay counted")

	_, created := r.Models.getOrCreate("a.Group", func() *ModelDescriptor { return &ModelDescriptor{Name: "Group"} })
	assert.True(t, created)
}
