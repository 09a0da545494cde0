package library

import (
	"testing"

	"github.com/google/uuid"
)

func TestJoinSplitIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	raw := JoinIDs([]uuid.UUID{a, uuid.Nil, b})
	if raw != a.String()+","+b.String() {
		t.Fatalf("JoinIDs: %q", raw)
	}
	got := SplitIDs(" " + raw + ",,not-a-uuid")
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("SplitIDs: %v", got)
	}
	if got := SplitIDs(""); len(got) != 0 {
		t.Fatalf("SplitIDs empty: %v", got)
	}
}
