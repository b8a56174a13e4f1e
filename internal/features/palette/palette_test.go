package palette

import (
	"image/color"
	"regexp"
	"strings"
	"testing"
)

func TestLookupCaseInsensitive(t *testing.T) {
	for _, name := range Names() {
		lower, ok1 := Lookup(strings.ToLower(name))
		upper, ok2 := Lookup(strings.ToUpper(name))
		plain, ok3 := Lookup(name)
		if !ok1 || !ok2 || !ok3 {
			t.Fatalf("Lookup(%q) variants should all succeed", name)
		}
		if lower != upper || upper != plain {
			t.Errorf("Lookup(%q) differs by case: %v %v %v", name, lower, upper, plain)
		}
	}
	if _, ok := Lookup("  Teal "); !ok {
		t.Error("surrounding whitespace should be ignored")
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	e, ok := Resolve("mauve")
	if ok {
		t.Error("Resolve(mauve) should report a miss")
	}
	if e.Name != DefaultName {
		t.Errorf("Resolve(mauve) = %q, want %q", e.Name, DefaultName)
	}

	e, ok = Resolve("INDIGO")
	if !ok || e.Name != "indigo" {
		t.Errorf("Resolve(INDIGO) = %q, %v", e.Name, ok)
	}
}

func TestSequence(t *testing.T) {
	for _, base := range Names() {
		for _, n := range []int{1, 2, Size, Size + 1, 3*Size + 2} {
			seq := Sequence(base, n)
			if len(seq) != n {
				t.Fatalf("Sequence(%q, %d) has %d entries", base, n, len(seq))
			}
			want, _ := Lookup(base)
			if seq[0] != want.Primary {
				t.Errorf("Sequence(%q, %d)[0] = %s, want %s", base, n, seq[0], want.Primary)
			}
			for i := Size; i < n; i++ {
				if seq[i] != seq[i-Size] {
					t.Errorf("Sequence(%q, %d) not periodic at %d", base, n, i)
				}
			}
		}
	}
}

func TestSequenceRotation(t *testing.T) {
	got := Sequence("indigo", 3)
	want := []string{"#4C6EF5", "#F59F00", "#FF6B6B"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sequence(indigo, 3)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if len(Sequence("coral", 0)) != 0 {
		t.Error("Sequence with n=0 should be empty")
	}
	if Sequence("unknown", 1)[0] != Default().Primary {
		t.Error("unknown base should start at the default")
	}
}

func TestHexValuesAreValid(t *testing.T) {
	hexRe := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for _, e := range All() {
		for _, v := range []Variant{Primary, Light, Dark} {
			if !hexRe.MatchString(e.Hex(v)) {
				t.Errorf("%s variant %d has invalid hex %q", e.Name, v, e.Hex(v))
			}
		}
		if e.Usage == "" {
			t.Errorf("%s has no usage description", e.Name)
		}
	}
}

func TestHexColor(t *testing.T) {
	got := HexColor("#FF6B6B")
	if got != (color.RGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}) {
		t.Errorf("HexColor(#FF6B6B) = %v", got)
	}
	if HexColor("not-a-color") != (color.RGBA{R: 128, G: 128, B: 128, A: 255}) {
		t.Error("malformed hex should give grey")
	}
	c := WithAlpha(got, 64).(color.NRGBA)
	if c.A != 64 || c.R != 0xFF {
		t.Errorf("WithAlpha = %v", c)
	}
}
