package history

import "testing"

func TestNewIsZeroFilled(t *testing.T) {
	b := New(DefaultCapacity)
	vals := b.Values()
	if len(vals) != DefaultCapacity {
		t.Fatalf("expected %d values, got %d", DefaultCapacity, len(vals))
	}
	for i, v := range vals {
		if v != 0 {
			t.Errorf("value %d = %f, want 0", i, v)
		}
	}
}

func TestNewClampsCapacity(t *testing.T) {
	for _, n := range []int{0, -3} {
		if got := New(n).Len(); got != 1 {
			t.Errorf("New(%d).Len() = %d, want 1", n, got)
		}
	}
}

func TestPushSlidesWindow(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes int
	}{
		{"partial", 5, 3},
		{"exact", 5, 5},
		{"wrapped", 5, 12},
		{"default", DefaultCapacity, 173},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.cap)
			for i := 1; i <= tt.pushes; i++ {
				b.Push(float64(i))
			}

			vals := b.Values()
			if len(vals) != tt.cap {
				t.Fatalf("length changed: got %d, want %d", len(vals), tt.cap)
			}
			// window ends at the last push and counts back one per slot
			for i := range vals {
				want := float64(tt.pushes - (tt.cap - 1 - i))
				if want < 0 {
					want = 0
				}
				if vals[i] != want {
					t.Errorf("vals[%d] = %f, want %f", i, vals[i], want)
				}
			}
			if b.Last() != float64(tt.pushes) {
				t.Errorf("Last() = %f, want %d", b.Last(), tt.pushes)
			}
		})
	}
}

func TestValuesIsCopy(t *testing.T) {
	b := New(3)
	b.Push(1)
	vals := b.Values()
	vals[2] = 99
	if b.Last() != 1 {
		t.Error("Values did not return an independent copy")
	}
}

func TestReset(t *testing.T) {
	b := New(4)
	for i := 0; i < 7; i++ {
		b.Push(float64(i) + 0.5)
	}
	b.Reset()
	for i, v := range b.Values() {
		if v != 0 {
			t.Errorf("value %d = %f after reset", i, v)
		}
	}
	b.Push(2)
	if vals := b.Values(); vals[3] != 2 || vals[0] != 0 {
		t.Errorf("unexpected window after reset and push: %v", vals)
	}
}
