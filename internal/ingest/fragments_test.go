package ingest

import "testing"

func TestSplitFragments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty stream", "", 0},
		{"no fragments", "some log noise\n", 0},
		{"single array", `[{"title":"a"}]`, 1},
		{"concatenated arrays", `[{"title":"a"}][{"title":"b"},{"title":"c"}]`, 2},
		{"arrays separated by junk", "[{\"title\":\"a\"}]\ngarbage\n[{\"title\":\"b\"}]", 2},
		{"bracket inside string", `[{"title":"prices [up] today"}]`, 1},
		{"escaped quote inside string", `[{"title":"she said \"[sell]\""}]`, 1},
		{"unterminated array", `[{"title":"a"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFragments([]byte(tt.in))
			if len(got) != tt.want {
				t.Errorf("SplitFragments() returned %d fragments, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSplitFragmentsPreservesOrder(t *testing.T) {
	in := `[1][2][3]`
	got := SplitFragments([]byte(in))
	if len(got) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(got))
	}
	for i, want := range []string{"[1]", "[2]", "[3]"} {
		if string(got[i]) != want {
			t.Errorf("fragment %d = %q, want %q", i, got[i], want)
		}
	}
}
