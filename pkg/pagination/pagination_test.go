package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		items int64
		size  int
		want  int
	}{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 12, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.items, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.items, tc.size, got, tc.want)
		}
	}
}

func TestClampSnapsOutOfRangePages(t *testing.T) {
	if got := Clamp(0, 3); got != 1 {
		t.Fatalf("low pages should clamp to 1, got %d", got)
	}
	if got := Clamp(-5, 3); got != 1 {
		t.Fatalf("negative pages should clamp to 1, got %d", got)
	}
	if got := Clamp(99, 3); got != 3 {
		t.Fatalf("high pages should clamp to last, got %d", got)
	}
	if got := Clamp(2, 3); got != 2 {
		t.Fatalf("valid pages should pass through, got %d", got)
	}
}

func TestMetaForClampsAndComputesOffset(t *testing.T) {
	meta := MetaFor(Params{Page: 10, PageSize: 12}, 25)
	if meta.TotalPages != 3 {
		t.Fatalf("unexpected total pages: %d", meta.TotalPages)
	}
	if meta.Page != 3 {
		t.Fatalf("expected clamp to last page, got %d", meta.Page)
	}
	if meta.Offset() != 24 {
		t.Fatalf("unexpected offset: %d", meta.Offset())
	}
}
