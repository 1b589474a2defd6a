package chatlog

import (
	"context"
	"fmt"
	"testing"

	"github.com/justicebot/justicebot-backend/internal/data/repos/testutil"
	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
)

func TestChatMessageRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Of(context.Background())
	repo := NewChatMessageRepo(db, testutil.Logger(t))

	for i := 0; i < 3; i++ {
		_, err := repo.Append(dbc, []*types.ChatMessage{
			{SessionID: "s1", UserID: "u1", Role: types.ChatRoleUser, Content: fmt.Sprintf("q%d", i)},
			{SessionID: "s1", UserID: "u1", Role: types.ChatRoleBot, Content: fmt.Sprintf("a%d", i)},
		})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	all, err := repo.ListRecent(dbc, "u1", "s1", 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("want 6 messages, got %d", len(all))
	}
	for i, m := range all {
		if m.Seq != int64(i+1) {
			t.Fatalf("message %d has seq %d", i, m.Seq)
		}
	}

	recent, err := repo.ListRecent(dbc, "u1", "s1", 2)
	if err != nil {
		t.Fatalf("ListRecent limit: %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "q2" || recent[1].Content != "a2" {
		t.Fatalf("want last two oldest first, got %+v", recent)
	}

	if other, err := repo.ListRecent(dbc, "intruder", "s1", 10); err != nil || len(other) != 0 {
		t.Fatalf("session must be owner scoped: err=%v len=%d", err, len(other))
	}

	if _, err := repo.Append(dbc, []*types.ChatMessage{{SessionID: "a"}, {SessionID: "b"}}); err == nil {
		t.Fatalf("expected error for mixed sessions")
	}
}
