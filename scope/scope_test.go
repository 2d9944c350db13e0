package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_DefineAndLookup(t *testing.T) {
	root := New[int](nil)
	assert.NoError(t, root.Define("x", 10))

	v, ok := root.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	child := New[int](root)
	v, ok = child.Lookup("x")
	assert.True(t, ok, "child scope should see parent bindings")
	assert.Equal(t, 10, v)

	_, ok = child.Lookup("missing")
	assert.False(t, ok)
}

func TestScope_DuplicateDefineInSameFrameIsError(t *testing.T) {
	s := New[int](nil)
	assert.NoError(t, s.Define("x", 1))
	assert.Error(t, s.Define("x", 2))
}

func TestScope_ShadowingIsNotDuplicate(t *testing.T) {
	parent := New[int](nil)
	assert.NoError(t, parent.Define("x", 1))
	child := New[int](parent)
	assert.NoError(t, child.Define("x", 2))

	v, _ := child.Lookup("x")
	assert.Equal(t, 2, v)
	v, _ = parent.Lookup("x")
	assert.Equal(t, 1, v)
}

func TestScope_SetUpdatesDefiningFrame(t *testing.T) {
	parent := New[int](nil)
	assert.NoError(t, parent.Define("x", 1))
	child := New[int](parent)

	ok := child.Set("x", 99)
	assert.True(t, ok)

	v, _ := parent.Lookup("x")
	assert.Equal(t, 99, v)
	_, ok = child.LookupLocal("x")
	assert.False(t, ok, "Set must not create a new binding in the child frame")
}

func TestScope_SetUndefinedFails(t *testing.T) {
	s := New[int](nil)
	assert.False(t, s.Set("ghost", 1))
}

func TestScope_ObjectScopeHasNoParent(t *testing.T) {
	objScope := New[string](nil)
	assert.Nil(t, objScope.Parent)
}
