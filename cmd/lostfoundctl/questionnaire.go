package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
)

func questionnaireCmd(_ *app) *cobra.Command {
	var (
		lostPath        string
		id              string
		withExpectation bool
	)

	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Print the ownership questions generated for a lost report",
		Long: `Generate the questionnaire a claimant would see for a lost report.
With --expected the output is a questions file ready for 'verify'.`,
		Example: "  lostfoundctl questionnaire --lost lost.yaml --id l-42",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lost, err := readLost(lostPath)
			if err != nil {
				return err
			}
			l, err := pickLost(lost, id)
			if err != nil {
				return err
			}

			qs := verify.Questionnaire(&l)
			if withExpectation {
				out := make([]questionFile, len(qs))
				for i, q := range qs {
					out[i] = questionFile{Text: q.Text, ExpectedAnswer: q.ExpectedAnswer}
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer func() { _ = enc.Close() }()
				return enc.Encode(out)
			}

			for i, text := range verify.Texts(qs) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, text); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lostPath, "lost", "", "YAML or JSON file with lost reports")
	cmd.Flags().StringVar(&id, "id", "", "report id (optional when the file holds a single report)")
	cmd.Flags().BoolVar(&withExpectation, "expected", false, "include expected answers as YAML")
	_ = cmd.MarkFlagRequired("lost")
	return cmd
}

func pickLost(lost []item.Lost, id string) (item.Lost, error) {
	if id == "" {
		if len(lost) != 1 {
			return item.Lost{}, fmt.Errorf("file holds %d reports, pass --id", len(lost))
		}
		return lost[0], nil
	}
	for _, l := range lost {
		if l.ID == id {
			return l, nil
		}
	}
	return item.Lost{}, fmt.Errorf("lost report %q not found", id)
}
