package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fairfield", "fairfield"},
		{"  Fairfield  ", "fairfield"},
		{"Greenfield Hill", "greenfield-hill"},
		{"Greenfield-Hill", "greenfield-hill"},
		{"St. Mary's By-the-Sea", "st-mary-s-by-the-sea"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSame(t *testing.T) {
	if !Same("Fairfield", "fairfield") {
		t.Error("expected match")
	}
	if !Same("Greenfield Hill", "greenfield-hill") {
		t.Error("expected match")
	}
	if Same("Westport", "fairfield") {
		t.Error("unexpected match")
	}
	if Same("anything", "") {
		t.Error("empty slug must never match")
	}
}
