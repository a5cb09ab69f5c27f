package store

import (
	"context"
	"testing"
)

// runSuite 对任意 Store 实现执行相同的行为检查。
func runSuite(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	list, xe := s.List(ctx)
	if xe != nil {
		t.Fatalf("List: %v", xe)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	first, xe := s.Create(ctx, NewPost{Title: "first", Body: "hello"})
	if xe != nil {
		t.Fatalf("Create: %v", xe)
	}
	second, xe := s.Create(ctx, NewPost{Title: "second", Body: "world"})
	if xe != nil {
		t.Fatalf("Create: %v", xe)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("ids should be unique: %q %q", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	got, ok, xe := s.Get(ctx, first.ID)
	if xe != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, xe)
	}
	if got.Title != "first" || got.Body != "hello" || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("Get returned %+v, want %+v", got, first)
	}

	list, xe = s.List(ctx)
	if xe != nil {
		t.Fatalf("List: %v", xe)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("List should keep insertion order: %+v", list)
	}

	deleted, xe := s.Delete(ctx, first.ID)
	if xe != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, xe)
	}
	deleted, xe = s.Delete(ctx, first.ID)
	if xe != nil || deleted {
		t.Fatalf("second Delete: deleted=%v err=%v", deleted, xe)
	}
	if _, ok, _ := s.Get(ctx, first.ID); ok {
		t.Fatal("post should be gone")
	}

	list, _ = s.List(ctx)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("List after delete: %+v", list)
	}
}
