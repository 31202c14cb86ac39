package skill

import "testing"

func TestSlugFor(t *testing.T) {
	cases := map[string]string{
		"Go":               "go",
		"  Ruby on Rails ": "ruby-on-rails",
		"Node.js":          "node-js",
	}
	for in, want := range cases {
		if got := SlugFor(in); got != want {
			t.Fatalf("SlugFor(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestValidRating(t *testing.T) {
	for _, r := range []float64{0, 0.5, 7.3, 10} {
		if !ValidRating(r) {
			t.Fatalf("expected %v to be valid", r)
		}
	}
	for _, r := range []float64{-0.1, 10.1, 7.35} {
		if ValidRating(r) {
			t.Fatalf("expected %v to be invalid", r)
		}
	}
}
