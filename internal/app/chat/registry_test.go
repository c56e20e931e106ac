package chat

import (
	"testing"
)

func TestBindAndLookup(t *testing.T) {
	reg := NewRegistry()
	c := &Client{}

	reg.Bind(c, "user-aaaa0000", "Al")

	identity, ok := reg.IdentityOf(c)
	if !ok {
		t.Fatal("IdentityOf() after Bind = not bound")
	}
	if identity.ID != "user-aaaa0000" || identity.Vanity != "Al" {
		t.Errorf("IdentityOf() = %+v, want {user-aaaa0000 Al}", identity)
	}

	if reg.ClientFor("user-aaaa0000") != c {
		t.Error("ClientFor() did not return the bound connection")
	}
}

func TestBindEvictsOlderConnection(t *testing.T) {
	reg := NewRegistry()
	older := &Client{}
	newer := &Client{}

	reg.Bind(older, "user-aaaa0000", "Al")
	reg.Bind(newer, "user-aaaa0000", "Al2")

	if reg.ClientFor("user-aaaa0000") != newer {
		t.Error("identity should map to the newer connection")
	}

	if _, ok := reg.IdentityOf(older); ok {
		t.Error("older connection should no longer be bound")
	}

	// the superseded connection releases nothing
	if _, released := reg.Release(older); released {
		t.Error("Release() of superseded connection should be a no-op")
	}

	// and its no-op release must not disturb the live binding
	if reg.ClientFor("user-aaaa0000") != newer {
		t.Error("live binding lost after stale release")
	}
}

func TestBindReplacesConnectionIdentity(t *testing.T) {
	reg := NewRegistry()
	c := &Client{}

	reg.Bind(c, "user-aaaa0000", "Al")
	reg.Bind(c, "user-bbbb1111", "Bo")

	if reg.ClientFor("user-aaaa0000") != nil {
		t.Error("old identity should have no live connection")
	}

	identity, ok := reg.IdentityOf(c)
	if !ok || identity.ID != "user-bbbb1111" {
		t.Errorf("IdentityOf() = %+v, want user-bbbb1111", identity)
	}
}

func TestReleaseRetainsVanity(t *testing.T) {
	reg := NewRegistry()
	c := &Client{}

	reg.Bind(c, "user-aaaa0000", "Al")

	identity, released := reg.Release(c)
	if !released {
		t.Fatal("Release() = false, want true")
	}
	if identity.ID != "user-aaaa0000" {
		t.Errorf("released identity = %q, want user-aaaa0000", identity.ID)
	}

	if reg.ClientFor("user-aaaa0000") != nil {
		t.Error("released identity should have no live connection")
	}

	if got := reg.RetainedVanity("user-aaaa0000"); got != "Al" {
		t.Errorf("RetainedVanity() after release = %q, want Al", got)
	}
}

func TestSnapshotListsOnlyLiveIdentities(t *testing.T) {
	reg := NewRegistry()
	a := &Client{}
	b := &Client{}

	reg.Bind(a, "user-aaaa0000", "Al")
	reg.Bind(b, "user-bbbb1111", "Bo")
	reg.Release(a)

	snapshot := reg.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Snapshot() has %d entries, want 1", len(snapshot))
	}
	if snapshot[0].ID != "user-bbbb1111" || snapshot[0].Vanity != "Bo" {
		t.Errorf("Snapshot()[0] = %+v, want {user-bbbb1111 Bo}", snapshot[0])
	}
}

func TestSnapshotSorted(t *testing.T) {
	reg := NewRegistry()

	reg.Bind(&Client{}, "user-cccc2222", "C")
	reg.Bind(&Client{}, "user-aaaa0000", "A")
	reg.Bind(&Client{}, "user-bbbb1111", "B")

	snapshot := reg.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("Snapshot() has %d entries, want 3", len(snapshot))
	}

	for i := 1; i < len(snapshot); i++ {
		if snapshot[i-1].ID >= snapshot[i].ID {
			t.Errorf("Snapshot() not sorted: %q before %q", snapshot[i-1].ID, snapshot[i].ID)
		}
	}
}
