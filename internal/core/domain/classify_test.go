package domain

import "testing"

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		domain  string
		service string
		want    Category
	}{
		{"gmail.com", "", CategoryEmail},
		{"", "Chase Checking", CategoryBanking},
		{"instagram.com", "", CategorySocial},
		{"gitlab.example.io", "", CategoryDeveloper},
		{"", "AWS Console", CategoryDeveloper},
		{"example.org", "Gardening Forum", CategoryOther},
	}

	for _, tc := range cases {
		if got := ClassifyCategory(tc.domain, tc.service); got != tc.want {
			t.Fatalf("classify(%q, %q): expected %s, got %s", tc.domain, tc.service, tc.want, got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory(" Banking "); got != CategoryBanking {
		t.Fatalf("expected banking, got %s", got)
	}
	if got := ParseCategory("totally-new"); got != CategoryOther {
		t.Fatalf("expected fallback to other, got %s", got)
	}
}
