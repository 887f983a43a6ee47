package semver

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"1.0.0", "2.3.4", "0.1.0-beta.1", "1.2.3+build.5"}
	for _, s := range cases {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-a-version"); err == nil {
		t.Fatal("expected InvalidVersion error, got nil")
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("1.0.0")
	b := MustParse("2.0.0")
	if !a.LessThan(b) {
		t.Error("expected 1.0.0 < 2.0.0")
	}
	if a.Compare(a) != 0 {
		t.Error("expected 1.0.0 == 1.0.0")
	}
}

func TestPrereleaseOrdering(t *testing.T) {
	pre := MustParse("1.0.0-alpha")
	rel := MustParse("1.0.0")
	if !pre.LessThan(rel) {
		t.Error("expected prerelease to order before release")
	}
}

func TestHighest(t *testing.T) {
	vs := []Version{MustParse("1.0.0"), MustParse("2.1.0"), MustParse("1.9.9")}
	if got := Highest(vs); got.String() != "2.1.0" {
		t.Errorf("Highest() = %v, want 2.1.0", got)
	}
}

func TestConstraintCheck(t *testing.T) {
	tests := []struct {
		expr string
		ver  string
		want bool
	}{
		{"^1.0.0", "1.5.0", true},
		{"^1.0.0", "2.0.0", false},
		{"~1.2.0", "1.2.9", true},
		{"~1.2.0", "1.3.0", false},
		{">=1.0.0, <2.0.0", "1.9.9", true},
		{"=1.0.0", "1.0.1", false},
		{"1.0.0 || 2.0.0", "2.0.0", true},
	}
	for _, tt := range tests {
		c, err := ParseConstraint(tt.expr)
		if err != nil {
			t.Fatalf("ParseConstraint(%q) error: %v", tt.expr, err)
		}
		v := MustParse(tt.ver)
		if got := c.Check(v); got != tt.want {
			t.Errorf("Constraint(%q).Check(%q) = %v, want %v", tt.expr, tt.ver, got, tt.want)
		}
	}
}

func TestParseConstraintInvalid(t *testing.T) {
	if _, err := ParseConstraint("not a constraint"); err == nil {
		t.Fatal("expected InvalidConstraint error, got nil")
	}
}
