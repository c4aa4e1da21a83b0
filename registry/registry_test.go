package registry

import "testing"

func TestTopicHashNormalizes(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		same bool
	}{
		{"case and spacing collapse", "Why Save In Dollars", "  why   save in DOLLARS ", true},
		{"different topics differ", "why save in dollars", "why save in euros", false},
		{"korean topics", "달러로 저축하는 이유", "달러로  저축하는 이유", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ha, hb := TopicHash(c.a), TopicHash(c.b)
			if ha == "" || hb == "" {
				t.Fatal("empty hash")
			}
			if (ha == hb) != c.same {
				t.Fatalf("TopicHash(%q)==TopicHash(%q) is %v; want %v", c.a, c.b, ha == hb, c.same)
			}
		})
	}
}
