// Package ranking scores reviewed entities by how many of their traits are
// rated below a positivity threshold and renders the resulting leaderboards.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	MostDetestable  Kind = "most_detestable"
	LeastDetestable Kind = "least_detestable"
)

type Format string

const (
	FormatRSS  Format = "rss"
	FormatJSON Format = "json"
)

const (
	DefaultRatingThreshold  = 2.5
	DefaultCentralThreshold = 50.0

	// desirableThreshold is the positive percentage at which an entity counts as desirable.
	desirableThreshold = 60.0
)

var (
	ValidKinds   = []Kind{MostDetestable, LeastDetestable}
	ValidFormats = []Format{FormatRSS, FormatJSON}
)

// ParamError is a rejected query parameter; Message is shown to the client.
type ParamError struct{ Message string }

func (e *ParamError) Error() string { return e.Message }

// ParseKind accepts only the listed kinds; an empty value is rejected.
// Callers apply the default when the parameter is absent.
func ParseKind(s string) (Kind, error) {
	for _, k := range ValidKinds {
		if Kind(s) == k {
			return k, nil
		}
	}
	names := make([]string, len(ValidKinds))
	for i, k := range ValidKinds {
		names[i] = string(k)
	}
	return "", &ParamError{"Invalid ranking type. Valid types are: " + strings.Join(names, ", ")}
}

func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats {
		if Format(s) == f {
			return f, nil
		}
	}
	names := make([]string, len(ValidFormats))
	for i, f := range ValidFormats {
		names[i] = string(f)
	}
	return "", &ParamError{"Invalid format. Valid formats are: " + strings.Join(names, ", ")}
}

type Trait struct {
	ID          int64
	Name        string
	AvgRating   float64
	ReviewCount int
}

// Entity is an approved, reviewed entity with its per-trait aggregates.
type Entity struct {
	ID           int64
	Name         string
	Description  string
	Category     string
	AvgRating    float64
	LastReviewAt *time.Time
	Traits       []Trait
}

// Scored is an Entity after classification.
type Scored struct {
	Entity
	TotalTraits        int
	PositiveTraits     int
	PositivePercentage float64
	DetestabilityScore float64
	IsDesirable        bool
}

func (s Scored) NegativeTraits() int { return s.TotalTraits - s.PositiveTraits }

type Params struct {
	Kind             Kind
	Format           Format
	RatingThreshold  float64
	CentralThreshold float64
}

func DefaultParams() Params {
	return Params{
		Kind:             MostDetestable,
		Format:           FormatRSS,
		RatingThreshold:  DefaultRatingThreshold,
		CentralThreshold: DefaultCentralThreshold,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Classify marks each trait positive when its average reaches ratingThreshold
// and derives the entity's percentages. An entity without traits is fully detestable.
func Classify(e Entity, ratingThreshold float64) Scored {
	s := Scored{Entity: e, TotalTraits: len(e.Traits)}
	for _, t := range e.Traits {
		if t.AvgRating >= ratingThreshold {
			s.PositiveTraits++
		}
	}
	if s.TotalTraits == 0 {
		s.DetestabilityScore = 100
		return s
	}
	s.PositivePercentage = round2(float64(s.PositiveTraits) / float64(s.TotalTraits) * 100)
	s.DetestabilityScore = round2(100 - s.PositivePercentage)
	s.IsDesirable = s.PositivePercentage >= desirableThreshold
	return s
}

// Rank classifies, filters and orders entities for p.Kind. Ties that survive
// both sort keys keep their input order.
func Rank(entities []Entity, p Params) []Scored {
	out := make([]Scored, 0, len(entities))
	for _, e := range entities {
		s := Classify(e, p.RatingThreshold)
		switch p.Kind {
		case MostDetestable:
			if s.DetestabilityScore >= p.CentralThreshold {
				out = append(out, s)
			}
		case LeastDetestable:
			if s.DetestabilityScore < p.CentralThreshold {
				out = append(out, s)
			}
		}
	}

	if p.Kind == MostDetestable {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DetestabilityScore != out[j].DetestabilityScore {
				return out[i].DetestabilityScore > out[j].DetestabilityScore
			}
			return out[i].AvgRating < out[j].AvgRating
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DetestabilityScore != out[j].DetestabilityScore {
				return out[i].DetestabilityScore < out[j].DetestabilityScore
			}
			return out[i].AvgRating > out[j].AvgRating
		})
	}
	return out
}

// Report is a ranked leaderboard ready for rendering.
type Report struct {
	Kind        Kind
	Title       string
	Description string
	Items       []Scored
}

func (r Report) Empty() bool { return len(r.Items) == 0 }

// Score is the headline percentage for the report kind.
func (r Report) Score(s Scored) float64 {
	if r.Kind == MostDetestable {
		return s.DetestabilityScore
	}
	return s.PositivePercentage
}

func Build(entities []Entity, p Params) Report {
	items := Rank(entities, p)
	central := formatNumber(p.CentralThreshold)
	r := Report{Kind: p.Kind, Items: items}

	if len(items) == 0 {
		criteria := "detestabilitate"
		if p.Kind == LeastDetestable {
			criteria = "non-detestabilitate"
		}
		r.Title = "Fără rezultate"
		r.Description = fmt.Sprintf("Nu există entități care să îndeplinească criteriile de %s pentru pragul de %s%%.", criteria, central)
		return r
	}

	if p.Kind == MostDetestable {
		r.Title = "Cele Mai Detestabile Entități"
		r.Description = "Clasamentul entităților cu cele mai multe trăsături negative și cel mai mare scor de detestabilitate (detestabilitate ≥ " + central + "%)"
	} else {
		r.Title = "Cele Mai Puțin Detestabile Entități"
		r.Description = "Clasamentul entităților cu cele mai multe trăsături pozitive și cel mai mic scor de detestabilitate (detestabilitate < " + central + "%)"
	}
	return r
}

// formatNumber prints v in its shortest form: 50, 33.33, 2.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
