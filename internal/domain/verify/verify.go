// Package verify scores a claimant's questionnaire answers against what the
// lost report says about the item.
package verify

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Question is a single questionnaire entry. An empty ExpectedAnswer makes
// the question open-ended.
type Question struct {
	Text           string
	ExpectedAnswer string
}

// OpenEnded reports whether q has no expected answer to compare against.
func (q Question) OpenEnded() bool {
	return strings.TrimSpace(q.ExpectedAnswer) == ""
}

// Thresholds are the tunable constants of the verifier.
type Thresholds struct {
	ExactPoints       int // expected answer matched exactly
	KeywordPoints     int // a significant expected word appears in the answer
	ContainsPoints    int // one answer contains the other
	ExpectedMax       int // points available for a question with an expected answer
	OpenMax           int // points available for an open-ended question
	OpenPartialPoints int
	OpenFullLen       int // answer longer than this earns OpenMax
	OpenPartialLen    int // answer longer than this earns OpenPartialPoints
	KeywordMinLen     int // expected words must be longer than this to count
	PassThreshold     int // confidence at or above this verifies ownership
}

// Defaults.
const (
	DefaultPassThreshold = 70
)

// DefaultThresholds returns the 100/50/30 tiering, 50-point open-ended
// questions and a pass mark of 70.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExactPoints:       100,
		KeywordPoints:     50,
		ContainsPoints:    30,
		ExpectedMax:       100,
		OpenMax:           50,
		OpenPartialPoints: 25,
		OpenFullLen:       15,
		OpenPartialLen:    5,
		KeywordMinLen:     3,
		PassThreshold:     DefaultPassThreshold,
	}
}

// Validate checks the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.ExpectedMax <= 0 || t.OpenMax <= 0 {
		return errors.New("expected_max and open_max must be positive")
	}
	if t.ExactPoints > t.ExpectedMax || t.KeywordPoints > t.ExpectedMax || t.ContainsPoints > t.ExpectedMax {
		return fmt.Errorf("answer tier points must not exceed expected_max (%d)", t.ExpectedMax)
	}
	if t.OpenPartialPoints > t.OpenMax {
		return fmt.Errorf("open_partial_points must not exceed open_max (%d)", t.OpenMax)
	}
	if t.OpenPartialLen > t.OpenFullLen {
		return errors.New("open_partial_len must not exceed open_full_len")
	}
	if t.PassThreshold < 0 || t.PassThreshold > 100 {
		return fmt.Errorf("pass_threshold must be between 0 and 100, got %d", t.PassThreshold)
	}
	return nil
}

// Result is the outcome of a verification.
type Result struct {
	Confidence int
	Verified   bool
	Earned     int
	Possible   int
}

// Verify scores answers positionally against questions. Missing answers
// count as empty. With nothing scorable the confidence is 0.
func Verify(questions []Question, answers []string, t Thresholds) Result {
	var earned, possible int
	for i, q := range questions {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		e, p := scoreAnswer(q, answer, t)
		earned += e
		possible += p
	}

	confidence := 0
	if possible > 0 {
		confidence = int(math.Round(float64(earned) / float64(possible) * 100))
	}
	return Result{
		Confidence: confidence,
		Verified:   confidence >= t.PassThreshold,
		Earned:     earned,
		Possible:   possible,
	}
}

// scoreAnswer returns the points earned and the points available for one question.
func scoreAnswer(q Question, answer string, t Thresholds) (earned, possible int) {
	user := strings.ToLower(strings.TrimSpace(answer))

	if q.OpenEnded() {
		n := utf8.RuneCountInString(user)
		switch {
		case n > t.OpenFullLen:
			return t.OpenMax, t.OpenMax
		case n > t.OpenPartialLen:
			return t.OpenPartialPoints, t.OpenMax
		default:
			return 0, t.OpenMax
		}
	}

	expected := strings.ToLower(strings.TrimSpace(q.ExpectedAnswer))
	switch {
	case user == expected:
		return t.ExactPoints, t.ExpectedMax
	case containsKeyword(user, expected, t.KeywordMinLen):
		return t.KeywordPoints, t.ExpectedMax
	case user != "" && (strings.Contains(expected, user) || strings.Contains(user, expected)):
		return t.ContainsPoints, t.ExpectedMax
	default:
		return 0, t.ExpectedMax
	}
}

func containsKeyword(user, expected string, minLen int) bool {
	for _, word := range strings.Fields(expected) {
		if utf8.RuneCountInString(word) > minLen && strings.Contains(user, word) {
			return true
		}
	}
	return false
}
