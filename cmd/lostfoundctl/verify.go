package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/lostfound/internal/domain/verify"
)

type verifyOutput struct {
	Confidence int  `json:"confidence"`
	Verified   bool `json:"verified"`
	Earned     int  `json:"earned"`
	Possible   int  `json:"possible"`
}

func verifyCmd(a *app) *cobra.Command {
	var (
		questionsPath string
		answersPath   string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Score ownership answers against a questionnaire",
		Long: `Compare answers positionally with the questions' expected answers and
print the confidence and the verdict. Questions without an expected answer
are scored on answer length.`,
		Example: "  lostfoundctl verify --questions questions.yaml --answers answers.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			qs, err := readQuestions(questionsPath)
			if err != nil {
				return err
			}
			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}
			if len(answers) > len(qs) {
				return fmt.Errorf("got %d answers for %d questions", len(answers), len(qs))
			}

			res := verify.Verify(qs, answers, a.thresholds)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(verifyOutput{
					Confidence: res.Confidence,
					Verified:   res.Verified,
					Earned:     res.Earned,
					Possible:   res.Possible,
				})
			}

			verdict := "not verified"
			if res.Verified {
				verdict = "verified"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "confidence: %d%% (%d/%d points)\nverdict: %s\n",
				res.Confidence, res.Earned, res.Possible, verdict)
			return err
		},
	}

	cmd.Flags().StringVar(&questionsPath, "questions", "", "YAML or JSON list of {text, expected_answer}")
	cmd.Flags().StringVar(&answersPath, "answers", "", "YAML or JSON list of answers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
