package ecs

import (
	"testing"

	"github.com/milk9111/hollowreach/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
		wantAlive    int
	}{
		{"single", 1, 0, 0},
		{"three_destroy_middle", 3, 1, 2},
		{"none_destroyed", 2, -1, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second destroy of the same handle should fail")
				}
			}
			if got := len(Entities(w)); got != c.wantAlive {
				t.Fatalf("expected %d live entities, got %d", c.wantAlive, got)
			}
			if got := EntityCount(w); got != c.wantAlive {
				t.Fatalf("EntityCount = %d, want %d", got, c.wantAlive)
			}
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse, got id %d want %d", reused.id(), old.id())
	}
	if reused == old {
		t.Fatalf("reused handle must differ by generation")
	}
	if _, ok := Get(w, old, kind); ok {
		t.Fatalf("stale handle must not resolve components")
	}
	if _, ok := Get(w, reused, kind); ok {
		t.Fatalf("destroy should have cleared the old component")
	}
	if err := Add(w, old, kind, intPtr(2)); err == nil {
		t.Fatalf("adding to a stale handle should fail")
	}
}

func TestComponentTable(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get[int](w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove[int](w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_both",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has[string](w, e1, h2.Kind()) || !Has[string](w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if Count(w, h2.Kind()) != 2 {
					t.Fatalf("expected count 2")
				}
			},
			teardown: func() bool { return Remove[string](w, e1, h2.Kind()) },
		},
		{
			name:  "replace_existing",
			setup: func() error { _ = Add(w, e2, h1.Kind(), intPtr(1)); return Add(w, e2, h1.Kind(), intPtr(7)) },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, h1.Kind())
				if v == nil || *v != 7 {
					t.Fatalf("expected replaced value 7, got %v", v)
				}
				if Count(w, h1.Kind()) != 1 {
					t.Fatalf("replace must not duplicate entries")
				}
			},
			teardown: func() bool { return Remove[int](w, e2, h1.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if err := Add[int](w, e1, h1.Kind(), nil); err == nil {
		t.Fatalf("nil component should be rejected")
	}
}

func TestFirstPrefersLowestSlot(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	a := CreateEntity(w)
	b := CreateEntity(w)
	c := CreateEntity(w)
	_ = Add(w, c, kind, intPtr(3))
	_ = Add(w, b, kind, intPtr(2))

	got, ok := First(w, kind)
	if !ok || got != b {
		t.Fatalf("First = %v,%v want %v", got, ok, b)
	}
	if _, ok := First(w, component.NewComponentKind[string]()); ok {
		t.Fatalf("First on an unused kind should report false")
	}
	_ = a
}

func TestForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	var ents []Entity
	for i := 0; i < 5; i++ {
		e := CreateEntity(w)
		_ = Add(w, e, kind, intPtr(i))
		ents = append(ents, e)
	}

	visited := 0
	ForEach(w, kind, func(e Entity, v *int) {
		visited++
		if *v == 0 {
			// destroy a later entity; it must be skipped
			DestroyEntity(w, ents[4])
		}
		if *v == 1 {
			_ = Add(w, CreateEntity(w), kind, intPtr(99))
		}
	})
	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}
	if Count(w, kind) != 5 {
		t.Fatalf("expected 5 components after mutation, got %d", Count(w, kind))
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "two",
			run: func(t *testing.T) {
				w := NewWorld()
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[string]()
				e1, e2 := CreateEntity(w), CreateEntity(w)
				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e2, ka, intPtr(2))
				_ = Add(w, e2, kb, stringPtr("x"))

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "three_ignores_dead",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))
				_ = Add(w, e, kb, intPtr(2))
				_ = Add(w, e, kc, intPtr(3))
				DestroyEntity(w, e)

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "four",
			run: func(t *testing.T) {
				w := NewWorld()
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()
				e1, e2, e3 := CreateEntity(w), CreateEntity(w), CreateEntity(w)
				for _, k := range []component.ComponentKind[int]{ka, kb, kc, kd} {
					_ = Add(w, e2, k, intPtr(1))
				}
				_ = Add(w, e1, ka, intPtr(1))
				_ = Add(w, e3, kd, intPtr(1))

				var res []Entity
				ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0].id() != e2.id() {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				kd := component.NewComponentKind[int]()
				ke := component.NewComponentKind[int]()
				_ = Add(w, e, ka, intPtr(1))

				called := false
				ForEach5(w, ka, kb, kc, kd, ke, func(Entity, *int, *int, *int, *int, *int) { called = true })
				if called {
					t.Fatalf("expected no callback when stores are missing")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct{ n *[]string; name string }

func (s countingSystem) Update(*World) { *s.n = append(*s.n, s.name) }

func TestSchedulerOrder(t *testing.T) {
	var order []string
	s := NewScheduler(countingSystem{&order, "a"}, nil, countingSystem{&order, "b"})
	s.Add(countingSystem{&order, "c"})
	s.Update(NewWorld())
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("nil systems must be dropped")
	}
}
