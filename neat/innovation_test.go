package neat

import "testing"

func TestInnovationRegistryAssignsSequentialIDs(t *testing.T) {
	reg := NewInnovationRegistry()

	id1 := reg.GetOrAssign(0, 2)
	id2 := reg.GetOrAssign(1, 2)
	if id1 != 1 || id2 != 2 {
		t.Errorf("got ids (%d, %d), want (1, 2)", id1, id2)
	}
	if reg.Len() != 2 {
		t.Errorf("registry has %d entries, want 2", reg.Len())
	}
}

func TestInnovationRegistryStableAcrossQueries(t *testing.T) {
	reg := NewInnovationRegistry()

	first := reg.GetOrAssign(0, 3)
	reg.GetOrAssign(1, 3)
	reg.GetOrAssign(2, 3)

	// The original assignment must survive later allocations.
	if again := reg.GetOrAssign(0, 3); again != first {
		t.Errorf("event (0,3) remapped from %d to %d", first, again)
	}
	if reg.Len() != 3 {
		t.Errorf("registry has %d entries, want 3", reg.Len())
	}
}

func TestInnovationRegistryDistinguishesDirection(t *testing.T) {
	reg := NewInnovationRegistry()

	forward := reg.GetOrAssign(3, 5)
	backward := reg.GetOrAssign(5, 3)
	if forward == backward {
		t.Errorf("events (3,5) and (5,3) share id %d", forward)
	}
}
