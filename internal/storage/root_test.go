package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliases(t *testing.T) {
	queue := NewRoot(PersistentSymbol("lib1", "queue"))
	elem := queue.Child(AnyIndex)
	field := elem.Child(FieldStep("x"))
	other := NewRoot(PersistentSymbol("Main", "queue"))
	local := NewRoot(MemorySymbol("Main", "run", "queue"))

	tests := []struct {
		name string
		a, b Root
		want bool
	}{
		{"identical", queue, queue, true},
		{"whole and element", queue, elem, true},
		{"element and field", field, elem, true},
		{"whole and nested field", field, queue, true},
		{"same name other module", queue, other, false},
		{"storage and memory", queue, local, false},
		{"sibling fields", queue.Child(FieldStep("a")), queue.Child(FieldStep("b")), false},
		{"field vs index", queue.Child(FieldStep("a")), queue.Child(AnyIndex), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aliases(tt.a, tt.b))
			assert.Equal(t, tt.want, Aliases(tt.b, tt.a), "aliasing is symmetric")
		})
	}
}

func TestChildDoesNotShareBacking(t *testing.T) {
	base := NewRoot(PersistentSymbol("Main", "arr")).Child(FieldStep("foo"))
	a := base.Child(AnyIndex)
	b := base.Child(FieldStep("bar"))
	assert.Equal(t, "Main::arr.foo[*]", a.String())
	assert.Equal(t, "Main::arr.foo.bar", b.String())
	assert.Len(t, base.Path, 1)
}

func TestRootStrings(t *testing.T) {
	r := NewRoot(MemorySymbol("Main", "run", "xs")).Child(AnyIndex)
	assert.Equal(t, "Main::run::xs[*]", r.String())
	assert.Equal(t, "memory:Main::run::xs[*]", r.Key())
	assert.Equal(t, "xs", r.Name())
	assert.False(t, r.IsPersistent())
	assert.True(t, r.Equal(NewRoot(MemorySymbol("Main", "run", "xs")).Child(AnyIndex)))
	assert.False(t, r.Equal(NewRoot(MemorySymbol("Main", "run", "xs"))))
}

func TestSet(t *testing.T) {
	var s Set
	queue := NewRoot(PersistentSymbol("lib1", "queue"))
	tmp := NewRoot(MemorySymbol("lib1", "f", "tmp"))

	assert.True(t, s.Add(queue))
	assert.False(t, s.Add(NewRoot(PersistentSymbol("lib1", "queue"))))
	assert.True(t, s.Add(tmp))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(queue))

	found, ok := s.FindAlias(queue.Child(AnyIndex))
	require.True(t, ok)
	assert.True(t, found.Equal(queue))

	_, ok = s.FindAlias(NewRoot(PersistentSymbol("Main", "queue")))
	assert.False(t, ok)

	persistent := s.Persistent()
	assert.Equal(t, 1, persistent.Len())
	assert.Equal(t, "{lib1::queue}", persistent.String())

	other := NewSet(queue, NewRoot(PersistentSymbol("lib1", "x")))
	assert.True(t, s.AddAll(other))
	assert.False(t, s.AddAll(other))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "{lib1::f::tmp, lib1::queue, lib1::x}", s.String())
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(NewRoot(PersistentSymbol("a", "b"))))
	assert.Nil(t, s.Roots())
	_, ok := s.FindAlias(NewRoot(PersistentSymbol("a", "b")))
	assert.False(t, ok)
}
