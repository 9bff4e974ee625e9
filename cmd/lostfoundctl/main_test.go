package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lostYAML = `
- id: lost-1
  title: Black Wallet
  category: wallet
  location: Central Park
  date: "2024-03-01"
  attributes:
    item_brand: Gucci
    item_color: black
- id: lost-2
  title: Blue Backpack
  category: bags
  location: Library
  date: "2024-03-01"
`

const foundJSON = `[
  {"id": "found-1", "title": "Black Wallet Found", "category": "wallet",
   "location": "Central Park", "date": "2024-03-03"},
  {"id": "found-2", "title": "Red Umbrella", "category": "other",
   "location": "Library", "date": "2024-03-01"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMatch_Table(t *testing.T) {
	lost := writeFile(t, "lost.yaml", lostYAML)
	found := writeFile(t, "found.json", foundJSON)

	out, err := run(t, "match", "--lost", lost, "--found", found)
	require.NoError(t, err)

	assert.Contains(t, out, "MATCH")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "lost-1 (Black Wallet)")
	assert.NotContains(t, out, "lost-2", "backpack shares nothing with the found reports")
}

func TestMatch_JSON(t *testing.T) {
	lost := writeFile(t, "lost.yaml", lostYAML)
	found := writeFile(t, "found.json", foundJSON)

	out, err := run(t, "match", "--lost", lost, "--found", found, "--json")
	require.NoError(t, err)

	var got []candidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "auto-lost-1-found-1", got[0].ID)
	assert.Equal(t, 90, got[0].MatchPercentage)
	assert.Equal(t, "pending", got[0].Status)
}

func TestMatch_MinFlag(t *testing.T) {
	lost := writeFile(t, "lost.yaml", lostYAML)
	found := writeFile(t, "found.json", foundJSON)

	out, err := run(t, "match", "--lost", lost, "--found", found, "--min", "95")
	require.NoError(t, err)
	assert.Contains(t, out, "No candidates.")

	_, err = run(t, "match", "--lost", lost, "--found", found, "--min", "101")
	assert.Error(t, err)
}

func TestMatch_ConfigWeights(t *testing.T) {
	lost := writeFile(t, "lost.yaml", lostYAML)
	found := writeFile(t, "found.json", foundJSON)
	cfg := writeFile(t, "scoring.yaml", "matching:\n  min_percentage: 95\n")

	out, err := run(t, "--config", cfg, "match", "--lost", lost, "--found", found)
	require.NoError(t, err)
	assert.Contains(t, out, "No candidates.")

	bad := writeFile(t, "bad.yaml", "matching:\n  min_percentage: 400\n")
	_, err = run(t, "--config", bad, "match", "--lost", lost, "--found", found)
	assert.Error(t, err)
}

func TestMatch_RequiresFiles(t *testing.T) {
	_, err := run(t, "match", "--lost", "x.yaml")
	assert.Error(t, err)

	_, err = run(t, "match", "--lost", "/does/not/exist.yaml", "--found", "/nope.yaml")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	questions := writeFile(t, "q.yaml", `
- text: What color is your wallet?
  expected_answer: Black
- text: Any unique marks?
`)
	answers := writeFile(t, "a.yaml", `["black", "a scratch across the front clasp"]`)

	out, err := run(t, "verify", "--questions", questions, "--answers", answers)
	require.NoError(t, err)
	assert.Contains(t, out, "confidence: 100%")
	assert.Contains(t, out, "verdict: verified")

	empty := writeFile(t, "empty.yaml", `["", ""]`)
	out, err = run(t, "verify", "--questions", questions, "--answers", empty, "--json")
	require.NoError(t, err)
	var got verifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0, got.Confidence)
	assert.False(t, got.Verified)
	assert.Equal(t, 150, got.Possible)
}

func TestVerify_TooManyAnswers(t *testing.T) {
	questions := writeFile(t, "q.yaml", "- text: Color?\n")
	answers := writeFile(t, "a.yaml", "- red\n- blue\n")

	_, err := run(t, "verify", "--questions", questions, "--answers", answers)
	assert.Error(t, err)
}

func TestQuestionnaire(t *testing.T) {
	lost := writeFile(t, "lost.yaml", lostYAML)

	out, err := run(t, "questionnaire", "--lost", lost, "--id", "lost-1")
	require.NoError(t, err)
	assert.Contains(t, out, "1. What brand is your wallet?")
	assert.Contains(t, out, "7. Where did you lose this item?")
	assert.NotContains(t, out, "Gucci")

	_, err = run(t, "questionnaire", "--lost", lost)
	assert.Error(t, err, "two reports need --id")

	_, err = run(t, "questionnaire", "--lost", lost, "--id", "lost-9")
	assert.Error(t, err)
}

func TestQuestionnaire_ExpectedFeedsVerify(t *testing.T) {
	single := writeFile(t, "one.yaml", `
id: lost-1
title: Black Wallet
category: wallet
location: Central Park
date: "2024-03-01"
attributes:
  item_brand: Gucci
`)

	out, err := run(t, "questionnaire", "--lost", single, "--expected")
	require.NoError(t, err)
	assert.Contains(t, out, "expected_answer: Gucci")

	questions := writeFile(t, "q.yaml", out)
	answers := writeFile(t, "a.yaml", strings.Join([]string{
		"- Gucci",
		"- it is dark leather, black",
		"- two visa cards and a gym card",
		"- about twenty dollars in cash",
		"- initials embossed inside the flap",
		`- "2024-03-01"`,
		"- Central Park",
	}, "\n"))

	out, err = run(t, "verify", "--questions", questions, "--answers", answers)
	require.NoError(t, err)
	assert.Contains(t, out, "verdict: verified")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lostfoundctl dev"))
}
