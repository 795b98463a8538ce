package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in, want Params
	}{
		{"defaults", Params{}, Params{Page: 0, Size: DefaultSize}},
		{"negative page", Params{Page: -3, Size: 20}, Params{Page: 0, Size: 20}},
		{"capped size", Params{Page: 1, Size: 5000}, Params{Page: 1, Size: MaxSize}},
		{"passthrough", Params{Page: 2, Size: 25}, Params{Page: 2, Size: 25}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if off := (Params{Page: 3, Size: 10}).Offset(); off != 30 {
		t.Fatalf("expected offset 30, got %d", off)
	}
}

func TestNewPageTotals(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Params{Page: 0, Size: 2}, 5)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}
	if page.TotalElements != 5 {
		t.Fatalf("expected total 5, got %d", page.TotalElements)
	}

	empty := NewPage[string](nil, Params{}, 0)
	if empty.Content == nil {
		t.Fatal("content must serialize as [] not null")
	}
}
