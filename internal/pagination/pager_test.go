package pagination

import (
	"reflect"
	"testing"
)

func TestVisiblePages(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"few pages", 1, 3, []int{1, 2, 3}},
		{"exactly max", 4, 5, []int{1, 2, 3, 4, 5}},
		{"start", 1, 20, []int{1, 2, 3, 4, 5}},
		{"second", 2, 20, []int{1, 2, 3, 4, 5}},
		{"middle", 10, 20, []int{8, 9, 10, 11, 12}},
		{"near end", 19, 20, []int{16, 17, 18, 19, 20}},
		{"end", 20, 20, []int{16, 17, 18, 19, 20}},
		{"none", 1, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Pager{CurrentPage: tc.current, TotalPages: tc.total}
			if got := p.VisiblePages(5); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	p := Pager{CurrentPage: 2, TotalPages: 3}
	if _, ok := p.Target(2); ok {
		t.Error("current page is not a target")
	}
	if _, ok := p.Target(0); ok {
		t.Error("page 0 is out of range")
	}
	if _, ok := p.Target(4); ok {
		t.Error("page 4 is out of range")
	}
	if pg, ok := p.Next(); !ok || pg != 3 {
		t.Errorf("next = %d %v", pg, ok)
	}
	if pg, ok := p.First(); !ok || pg != 1 {
		t.Errorf("first = %d %v", pg, ok)
	}

	p.Disabled = true
	if _, ok := p.Previous(); ok {
		t.Error("disabled pager should not navigate")
	}
	if p.CanGoNext() || p.CanGoPrevious() {
		t.Error("disabled pager cannot move")
	}
}

func TestItemRange(t *testing.T) {
	p := Pager{CurrentPage: 3, TotalPages: 3, TotalItems: 120, ItemsPerPage: 50}
	if p.StartItem() != 101 || p.EndItem() != 120 {
		t.Errorf("range = %d..%d", p.StartItem(), p.EndItem())
	}
	if p.CanGoNext() || !p.CanGoPrevious() {
		t.Error("last page navigation wrong")
	}

	empty := Pager{CurrentPage: 1, TotalPages: 1, ItemsPerPage: 50}
	if empty.StartItem() != 0 || empty.EndItem() != 0 {
		t.Errorf("empty range = %d..%d", empty.StartItem(), empty.EndItem())
	}
}
