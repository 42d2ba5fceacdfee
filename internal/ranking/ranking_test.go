package ranking

import (
	"errors"
	"testing"
)

func traits(avgs ...float64) []Trait {
	out := make([]Trait, len(avgs))
	for i, a := range avgs {
		out[i] = Trait{ID: int64(i + 1), Name: "t", AvgRating: a, ReviewCount: 1}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		traits        []Trait
		positive      int
		positivePct   float64
		detestability float64
		desirable     bool
	}{
		{"no traits", nil, 0, 0, 100, false},
		{"all negative", traits(1, 2, 2.49), 0, 0, 100, false},
		{"threshold is positive", traits(2.5), 1, 100, 0, true},
		{"one of three", traits(4, 1, 1), 1, 33.33, 66.67, false},
		{"two of three", traits(4, 3, 1), 2, 66.67, 33.33, true},
		{"half", traits(5, 1), 1, 50, 50, false},
		{"three of five is desirable", traits(5, 5, 5, 1, 1), 3, 60, 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(Entity{Traits: tt.traits}, DefaultRatingThreshold)
			if s.PositiveTraits != tt.positive || s.TotalTraits != len(tt.traits) {
				t.Errorf("positive %d/%d, want %d/%d", s.PositiveTraits, s.TotalTraits, tt.positive, len(tt.traits))
			}
			if s.PositivePercentage != tt.positivePct {
				t.Errorf("positive percentage = %v, want %v", s.PositivePercentage, tt.positivePct)
			}
			if s.DetestabilityScore != tt.detestability {
				t.Errorf("detestability = %v, want %v", s.DetestabilityScore, tt.detestability)
			}
			if s.IsDesirable != tt.desirable {
				t.Errorf("desirable = %v, want %v", s.IsDesirable, tt.desirable)
			}
		})
	}
}

func names(items []Scored) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sample() []Entity {
	return []Entity{
		{ID: 1, Name: "A", AvgRating: 1.5, Traits: traits(1, 1)},       // 100
		{ID: 2, Name: "B", AvgRating: 3.0, Traits: traits(4, 1)},       // 50
		{ID: 3, Name: "C", AvgRating: 4.5, Traits: traits(5, 5)},       // 0
		{ID: 4, Name: "D", AvgRating: 1.0, Traits: traits(2, 2)},       // 100
		{ID: 5, Name: "E", AvgRating: 3.5, Traits: traits(4, 4, 1)},    // 33.33
		{ID: 6, Name: "F", AvgRating: 4.0, Traits: traits(5, 5)},       // 0
		{ID: 7, Name: "G", AvgRating: 1.0, Traits: traits(1, 1, 1, 1)}, // 100, ties D
	}
}

func TestRankMostDetestable(t *testing.T) {
	p := DefaultParams()
	got := names(Rank(sample(), p))
	want := []string{"D", "G", "A", "B"}
	if !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRankLeastDetestable(t *testing.T) {
	p := DefaultParams()
	p.Kind = LeastDetestable
	got := names(Rank(sample(), p))
	want := []string{"C", "F", "E"}
	if !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRankPartitionsAtCentralThreshold(t *testing.T) {
	p := DefaultParams()
	most := Rank(sample(), p)
	p.Kind = LeastDetestable
	least := Rank(sample(), p)

	if len(most)+len(least) != len(sample()) {
		t.Fatalf("partition lost entities: %d + %d != %d", len(most), len(least), len(sample()))
	}
	for _, s := range most {
		if s.DetestabilityScore < DefaultCentralThreshold {
			t.Errorf("%s (%v) should not be in most_detestable", s.Name, s.DetestabilityScore)
		}
	}
	for _, s := range least {
		if s.DetestabilityScore >= DefaultCentralThreshold {
			t.Errorf("%s (%v) should not be in least_detestable", s.Name, s.DetestabilityScore)
		}
	}
}

func TestRankCustomThresholds(t *testing.T) {
	p := Params{Kind: MostDetestable, RatingThreshold: 4.5, CentralThreshold: 75}
	got := names(Rank(sample(), p))
	// with a 4.5 cutoff only the 5-rated traits are positive
	want := []string{"D", "G", "A", "B", "E"}
	if !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestBuildNoResults(t *testing.T) {
	p := DefaultParams()
	p.Kind = LeastDetestable
	r := Build([]Entity{{Name: "bad", Traits: traits(1)}}, p)
	if !r.Empty() {
		t.Fatal("expected empty report")
	}
	if r.Title != "Fără rezultate" {
		t.Errorf("title = %q", r.Title)
	}
	want := "Nu există entități care să îndeplinească criteriile de non-detestabilitate pentru pragul de 50%."
	if r.Description != want {
		t.Errorf("description = %q", r.Description)
	}
}

func TestBuildTitles(t *testing.T) {
	r := Build(sample(), DefaultParams())
	if r.Title != "Cele Mai Detestabile Entități" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Description != "Clasamentul entităților cu cele mai multe trăsături negative și cel mai mare scor de detestabilitate (detestabilitate ≥ 50%)" {
		t.Errorf("description = %q", r.Description)
	}
}

func TestParseParams(t *testing.T) {
	if _, err := ParseKind(""); err == nil {
		t.Error("ParseKind(\"\") accepted an empty kind")
	}
	if _, err := ParseFormat(""); err == nil {
		t.Error("ParseFormat(\"\") accepted an empty format")
	}
	if k, err := ParseKind("least_detestable"); err != nil || k != LeastDetestable {
		t.Errorf("ParseKind = %v, %v", k, err)
	}

	_, err := ParseKind("best")
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Message != "Invalid ranking type. Valid types are: most_detestable, least_detestable" {
		t.Errorf("ParseKind error = %v", err)
	}
	_, err = ParseFormat("atom")
	if !errors.As(err, &pe) || pe.Message != "Invalid format. Valid formats are: rss, json" {
		t.Errorf("ParseFormat error = %v", err)
	}
}
