package exam

import "testing"

func TestCursor_PrevAtZeroIsNoop(t *testing.T) {
	c := NewCursor(3)
	c.Prev()
	if c.Index() != 0 {
		t.Errorf("Index = %d, want 0", c.Index())
	}
}

func TestCursor_NextAtLastIsNoop(t *testing.T) {
	c := NewCursor(3)
	c.GoTo(2)
	c.Next()
	if c.Index() != 2 {
		t.Errorf("Index = %d, want 2", c.Index())
	}
}

func TestCursor_GoToClamps(t *testing.T) {
	c := NewCursor(4)

	c.GoTo(99)
	if c.Index() != 3 {
		t.Errorf("Index after GoTo(99) = %d, want 3", c.Index())
	}

	c.GoTo(-5)
	if c.Index() != 0 {
		t.Errorf("Index after GoTo(-5) = %d, want 0", c.Index())
	}
}

func TestCursor_ChangeNotification(t *testing.T) {
	c := NewCursor(3)

	var got []int
	c.OnChange(func(i int) { got = append(got, i) })

	c.Next()       // 0 -> 1
	c.Next()       // 1 -> 2
	c.Next()       // boundary no-op, no notification
	c.GoTo(2)      // already there, no notification
	c.Prev()       // 2 -> 1
	c.GoTo(0)      // 1 -> 0
	c.Prev()       // boundary no-op

	want := []int{1, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCursor_SingleTitle(t *testing.T) {
	c := NewCursor(1)
	c.Next()
	c.Prev()
	if c.Index() != 0 {
		t.Errorf("Index = %d, want 0", c.Index())
	}
}
