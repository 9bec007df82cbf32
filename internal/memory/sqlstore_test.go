package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/admitdesk/admitdesk/internal/engine"
)

func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_StateRoundTrip(t *testing.T) {
	s := newTestSQLStore(t)
	ctx := context.Background()

	got, err := s.State(ctx, "unknown")
	if err != nil || got != nil {
		t.Fatalf("State(unknown) = (%v, %v), want (nil, nil)", got, err)
	}

	st := engine.NewState("s1")
	st.SetUserInfo(engine.InfoName, "Kapil")
	st.AppendMessage(engine.RoleUser, "hello")
	st.ConversationCount = 1
	if err := s.SaveState(ctx, "s1", st); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	// Overwrite with a later snapshot.
	st.ConversationCount = 2
	if err := s.SaveState(ctx, "s1", st); err != nil {
		t.Fatalf("SaveState() upsert error = %v", err)
	}

	got, err = s.State(ctx, "s1")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if got.ConversationCount != 2 || got.UserInfoString(engine.InfoName, "") != "Kapil" {
		t.Errorf("restored state = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Errorf("restored messages = %+v", got.Messages)
	}
}

func TestSQLStore_TranscriptOrderAndLimit(t *testing.T) {
	s := newTestSQLStore(t)
	ctx := context.Background()

	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		role := engine.RoleUser
		if i%2 == 1 {
			role = engine.RoleAssistant
		}
		if err := s.AppendMessage(ctx, "s1", role, c); err != nil {
			t.Fatalf("AppendMessage(%q) error = %v", c, err)
		}
	}

	msgs, err := s.Messages(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("len(Messages()) = %d, want 4", len(msgs))
	}
	for i, c := range contents {
		if msgs[i].Content != c {
			t.Errorf("msgs[%d].Content = %q, want %q", i, msgs[i].Content, c)
		}
	}

	msgs, err = s.Messages(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("Messages(limit=2) error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "three" || msgs[1].Content != "four" {
		t.Errorf("Messages(limit=2) = %+v", msgs)
	}
}

func TestSQLStore_DeleteRemovesStateAndTranscript(t *testing.T) {
	s := newTestSQLStore(t)
	ctx := context.Background()

	if err := s.SaveState(ctx, "s1", engine.NewState("s1")); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendMessage(ctx, "s1", engine.RoleUser, "hello"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if st, _ := s.State(ctx, "s1"); st != nil {
		t.Error("state survived Delete")
	}
	if msgs, _ := s.Messages(ctx, "s1", 0); len(msgs) != 0 {
		t.Errorf("transcript survived Delete: %+v", msgs)
	}
}

func TestSQLStore_SessionsAndClearOld(t *testing.T) {
	s := newTestSQLStore(t)
	ctx := context.Background()

	if err := s.SaveState(ctx, "a", engine.NewState("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(ctx, "b", engine.NewState("b")); err != nil {
		t.Fatal(err)
	}

	ids, err := s.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Sessions() = %v", ids)
	}

	removed, err := s.ClearOld(ctx, time.Hour)
	if err != nil {
		t.Fatalf("ClearOld() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("ClearOld(1h) removed %d, want 0", removed)
	}

	removed, err = s.ClearOld(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("ClearOld() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("ClearOld(-1h) removed %d, want 2", removed)
	}
}

func TestSQLStore_UserProfiles(t *testing.T) {
	s := newTestSQLStore(t)
	users := s.Users()
	ctx := context.Background()

	if p, err := users.Get(ctx, "u1"); err != nil || p != nil {
		t.Fatalf("Get(unknown) = (%v, %v), want (nil, nil)", p, err)
	}

	if err := users.Save(ctx, "u1", map[string]any{"name": "Kapil", "phone": "9876543210"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ok, _ := users.Exists(ctx, "u1"); !ok {
		t.Error("saved user does not exist")
	}

	if err := users.SetField(ctx, "u1", "email", "k@example.com"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	p, err := users.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p["email"] != "k@example.com" || p["name"] != "Kapil" {
		t.Errorf("profile = %v", p)
	}

	// SetField on an unknown user is ignored.
	if err := users.SetField(ctx, "nope", "email", "x@example.com"); err != nil {
		t.Errorf("SetField(unknown) error = %v", err)
	}
	if ok, _ := users.Exists(ctx, "nope"); ok {
		t.Error("SetField should not create users")
	}

	results, err := users.Search(ctx, map[string]any{"name": "Kapil"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results["u1"] == nil {
		t.Errorf("Search() = %v", results)
	}

	if err := users.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := users.Exists(ctx, "u1"); ok {
		t.Error("deleted user still exists")
	}
}
