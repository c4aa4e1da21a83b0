package render

import "testing"

func TestSafeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Why Save In Dollars", "Why_Save_In_Dollars"},
		{"Hello, World!", "Hello_World"},
		{"  spaced  out  ", "spaced_out"},
		{"달러로 저축하는 이유", "달러로_저축하는_이유"},
		{"???!!!", "video"},
		{"", "video"},
		{"a/b\\c:d", "abcd"},
	}
	for _, c := range cases {
		if got := SafeTitle(c.in); got != c.want {
			t.Errorf("SafeTitle(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestOutputFileName(t *testing.T) {
	if got := OutputFileName("My Video"); got != "My_Video.mp4" {
		t.Fatalf("OutputFileName = %q", got)
	}
}
