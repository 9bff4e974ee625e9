package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/match"
	logpkg "github.com/kailas-cloud/lostfound/internal/logger"
)

type candidateOutput struct {
	ID              string `json:"id"`
	LostItemID      string `json:"lost_item_id"`
	FoundItemID     string `json:"found_item_id"`
	MatchPercentage int    `json:"match_percentage"`
	Status          string `json:"status"`
}

func matchCmd(a *app) *cobra.Command {
	var (
		lostPath  string
		foundPath string
		minPct    int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank candidate matches between lost and found reports",
		Long: `Score every open lost report against every open found report and print
the pairs at or above the inclusion threshold, best first.

Reports without a status are treated as open.`,
		Example: "  lostfoundctl match --lost lost.yaml --found found.yaml --min 50",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := a.weights
			if cmd.Flags().Changed("min") {
				if minPct < 0 || minPct > 100 {
					return errors.New("--min must be between 0 and 100")
				}
				w.MinPercentage = minPct
			}

			lost, err := readLost(lostPath)
			if err != nil {
				return err
			}
			found, err := readFound(foundPath)
			if err != nil {
				return err
			}

			candidates := match.Score(lost, found, w)
			logpkg.FromContext(cmd.Context()).Debug("Scored reports",
				zap.Int("lost", len(lost)),
				zap.Int("found", len(found)),
				zap.Int("candidates", len(candidates)),
			)

			if asJSON {
				return writeCandidatesJSON(cmd, candidates)
			}
			return writeCandidatesTable(cmd, candidates, lost, found)
		},
	}

	cmd.Flags().StringVar(&lostPath, "lost", "", "YAML or JSON file with lost reports")
	cmd.Flags().StringVar(&foundPath, "found", "", "YAML or JSON file with found reports")
	cmd.Flags().IntVar(&minPct, "min", match.DefaultMinPercentage, "minimum match percentage to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("lost")
	_ = cmd.MarkFlagRequired("found")
	return cmd
}

func writeCandidatesJSON(cmd *cobra.Command, candidates []match.Candidate) error {
	out := make([]candidateOutput, len(candidates))
	for i, c := range candidates {
		out[i] = candidateOutput{
			ID:              c.ID,
			LostItemID:      c.LostItemID,
			FoundItemID:     c.FoundItemID,
			MatchPercentage: c.MatchPercentage,
			Status:          string(c.Status),
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCandidatesTable(cmd *cobra.Command, candidates []match.Candidate, lost []item.Lost, found []item.Found) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No candidates.")
		return err
	}

	titles := make(map[string]string, len(lost)+len(found))
	for _, l := range lost {
		titles["lost:"+l.ID] = l.Title
	}
	for _, f := range found {
		titles["found:"+f.ID] = f.Title
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH\tLOST\tFOUND")
	for _, c := range candidates {
		fmt.Fprintf(w, "%d%%\t%s (%s)\t%s (%s)\n",
			c.MatchPercentage,
			c.LostItemID, titles["lost:"+c.LostItemID],
			c.FoundItemID, titles["found:"+c.FoundItemID],
		)
	}
	return w.Flush()
}
