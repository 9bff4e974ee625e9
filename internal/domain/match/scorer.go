package match

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
)

// minTokenLen: tokens of this many characters or fewer are ignored.
const minTokenLen = 2

const hoursPerDay = 24

// Breakdown is the per-criterion result of scoring a single pair.
type Breakdown struct {
	CommonTokens []string
	Category     float64
	Title        float64
	Location     float64
	Date         float64
	Max          float64
}

// Score is the sum of the criterion points.
func (b Breakdown) Score() float64 {
	return b.Category + b.Title + b.Location + b.Date
}

// Percentage converts the accumulated score to an integer in [0, 100].
func (b Breakdown) Percentage() int {
	if b.Max <= 0 {
		return 0
	}
	p := int(math.Round(b.Score() / b.Max * 100))
	return min(max(p, 0), 100)
}

// Tokens splits a title on whitespace, lowercases it and drops short words.
func Tokens(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// commonTokens returns the lost tokens that also appear among the found tokens.
func commonTokens(lost, found []string) []string {
	set := make(map[string]struct{}, len(found))
	for _, t := range found {
		set[t] = struct{}{}
	}
	var common []string
	for _, t := range lost {
		if _, ok := set[t]; ok {
			common = append(common, t)
		}
	}
	return common
}

// Evaluate scores a single pair. ok is false when the titles share no
// significant token; such a pair is never scored.
func Evaluate(lost *item.Lost, found *item.Found, w Weights) (b Breakdown, ok bool) {
	lostTokens := Tokens(lost.Title)
	foundTokens := Tokens(found.Title)
	common := commonTokens(lostTokens, foundTokens)
	if len(common) == 0 {
		return Breakdown{}, false
	}
	b.CommonTokens = common

	lostCat := strings.TrimSpace(lost.Category)
	foundCat := strings.TrimSpace(found.Category)
	if !w.ConditionalMaxima || (lostCat != "" && foundCat != "") {
		b.Max += w.Category
		if lostCat != "" && strings.EqualFold(lostCat, foundCat) {
			b.Category = w.Category
		}
	}

	ratio := float64(len(common)) / float64(max(len(lostTokens), len(foundTokens)))
	b.Title = w.Title * ratio
	b.Max += w.Title

	lostLoc := strings.ToLower(strings.TrimSpace(lost.Location))
	foundLoc := strings.ToLower(strings.TrimSpace(found.Location))
	hasLoc := lostLoc != "" && foundLoc != ""
	if !w.ConditionalMaxima || hasLoc {
		b.Max += w.Location
		if hasLoc && (strings.Contains(lostLoc, foundLoc) || strings.Contains(foundLoc, lostLoc)) {
			b.Location = w.Location
		}
	}

	lostDate, lostOK := item.ParseDate(lost.Date)
	foundDate, foundOK := item.ParseDate(found.Date)
	if !w.ConditionalMaxima || (lostOK && foundOK) {
		b.Max += w.DateNear
		if lostOK && foundOK {
			days := math.Abs(foundDate.Sub(lostDate).Hours()) / hoursPerDay
			switch {
			case days <= w.NearDays:
				b.Date = w.DateNear
			case days <= w.FarDays:
				b.Date = w.DateFar
			}
		}
	}

	return b, true
}

// Eligible reports whether a lost/found pair is open for matching.
func Eligible(lost *item.Lost, found *item.Found) bool {
	if lost.Status != item.LostPending {
		return false
	}
	return found.Status == item.FoundAvailable || found.Status == item.FoundPending
}

// Score pairs every eligible lost report with every eligible found report
// and returns the candidates at or above w.MinPercentage, best first.
// Equal percentages keep encounter order (lost-major, found-minor).
func Score(lost []item.Lost, found []item.Found, w Weights) []Candidate {
	candidates := make([]Candidate, 0)
	for i := range lost {
		l := &lost[i]
		for j := range found {
			f := &found[j]
			if !Eligible(l, f) {
				continue
			}
			b, ok := Evaluate(l, f, w)
			if !ok {
				continue
			}
			pct := b.Percentage()
			if pct < w.MinPercentage {
				continue
			}
			candidates = append(candidates, Candidate{
				ID:              AutoID(l.ID, f.ID),
				LostItemID:      l.ID,
				FoundItemID:     f.ID,
				MatchPercentage: pct,
				Status:          StatusPending,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchPercentage > candidates[j].MatchPercentage
	})
	return candidates
}
