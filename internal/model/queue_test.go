package model

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	if _, _, ok := q.GetNextPair(); ok {
		t.Error("empty queue produced a pair")
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("duplicate err = %v", err)
	}

	p1, p2, ok := q.GetNextPair()
	if !ok || p1.ID != "a" || p2.ID != "b" {
		t.Errorf("pair = %s, %s, %v", p1.ID, p2.ID, ok)
	}
	if q.Size() != 1 {
		t.Errorf("size = %d", q.Size())
	}
	if !q.Remove("c") || q.Remove("c") {
		t.Error("remove mismatch")
	}
}
