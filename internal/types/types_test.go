package types

import (
	"encoding/json"
	"testing"

	"github.com/AnJayAx/Personality-Parade/internal/tally"
)

func TestAssignmentListPreservesKeyOrder(t *testing.T) {
	raw := []byte(`{"zed":3,"alice":1,"mike":2}`)

	var list AssignmentList
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []tally.Pair{
		{Target: "zed", Role: 3},
		{Target: "alice", Role: 1},
		{Target: "mike", Role: 2},
	}
	if len(list) != len(want) {
		t.Fatalf("decoded %d pairs, want %d", len(list), len(want))
	}
	for i, pair := range want {
		if list[i] != pair {
			t.Fatalf("pair %d = %+v, want %+v", i, list[i], pair)
		}
	}
}

func TestAssignmentListRoundTrip(t *testing.T) {
	list := AssignmentList{
		{Target: "p1", Role: 2},
		{Target: "p2", Role: 1},
	}

	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded AssignmentList
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range list {
		if decoded[i] != list[i] {
			t.Fatalf("pair %d = %+v, want %+v", i, decoded[i], list[i])
		}
	}
}

func TestAssignmentListRejectsNonObject(t *testing.T) {
	var list AssignmentList
	if err := json.Unmarshal([]byte(`[1,2]`), &list); err == nil {
		t.Fatalf("expected error for non-object assignments")
	}
	if err := json.Unmarshal([]byte(`{"p1":"x"}`), &list); err == nil {
		t.Fatalf("expected error for non-numeric role id")
	}
}

func TestClientMessageCategoryIndexZeroSurvives(t *testing.T) {
	raw := []byte(`{"type":"voteCategory","roomId":"ABCD","categoryIndex":0}`)

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.CategoryIndex == nil || *msg.CategoryIndex != 0 {
		t.Fatalf("categoryIndex = %v, want pointer to 0", msg.CategoryIndex)
	}
}

func TestClientMessageSubmitAssignments(t *testing.T) {
	raw := []byte(`{"type":"submitAssignments","roomId":"ABCD","assignments":{"p2":1,"p1":3}}`)

	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgSubmitAssignments {
		t.Fatalf("type = %q", msg.Type)
	}
	if len(msg.Assignments) != 2 || msg.Assignments[0].Target != "p2" {
		t.Fatalf("assignments = %+v, want p2 first", msg.Assignments)
	}
}
