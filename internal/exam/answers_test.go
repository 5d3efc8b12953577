package exam

import "testing"

func TestAnswerStore_SetIsIdempotent(t *testing.T) {
	s := NewAnswerStore()

	s.Set(1, 10)
	s.Set(1, 10)

	if got := s.AnsweredCount(); got != 1 {
		t.Errorf("AnsweredCount = %d, want 1", got)
	}
}

func TestAnswerStore_LastWriteWins(t *testing.T) {
	s := NewAnswerStore()

	s.Set(1, 10)
	s.Set(1, 20)

	if got := s.AnsweredCount(); got != 1 {
		t.Errorf("AnsweredCount = %d, want 1 (overwrite, not append)", got)
	}
	opt, ok := s.Get(1)
	if !ok || opt != 20 {
		t.Errorf("Get(1) = %d,%v, want 20,true", opt, ok)
	}
}

func TestAnswerStore_Seed(t *testing.T) {
	s := NewAnswerStore()
	s.Seed(map[int]int{1: 10, 2: 20})

	if got := s.AnsweredCount(); got != 2 {
		t.Errorf("AnsweredCount = %d, want 2", got)
	}

	// Live selections overwrite seeded ones.
	s.Set(2, 25)
	opt, _ := s.Get(2)
	if opt != 25 {
		t.Errorf("Get(2) = %d, want 25", opt)
	}
}

func TestAnswerStore_GetMissing(t *testing.T) {
	s := NewAnswerStore()
	if _, ok := s.Get(99); ok {
		t.Error("Get on empty store reported an entry")
	}
}
