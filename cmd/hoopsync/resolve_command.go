package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/hoopsync/internal/logging"
	"github.com/fortuna/hoopsync/internal/reconciliation"
	"github.com/fortuna/hoopsync/internal/store"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a player name against the stored boxscore corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Resolver.RosterThreshold
			}
			if threshold < 0 || threshold > 100 {
				return fmt.Errorf("--threshold must be between 0 and 100")
			}

			path := cfg.BoxscoresPath()
			if !store.Exists(path) {
				return fmt.Errorf("boxscore corpus not found at %s", path)
			}
			corpus, err := store.ReadTable(path)
			if err != nil {
				return err
			}
			observations, err := reconciliation.ObservationsFromTable(corpus)
			if err != nil {
				return err
			}
			index := reconciliation.BuildIdentityIndex(observations, ctx.loggerValue())

			name := strings.Join(args, " ")
			match, ok := index.Resolve(name, threshold)
			ctx.loggerValue().Debug("name resolved",
				logging.String("query", name),
				logging.Int("score", match.Score),
				logging.Bool("exact", match.Exact),
				logging.Bool("accepted", ok),
			)

			out := cmd.OutOrStdout()
			if !ok {
				if match.Key == "" {
					fmt.Fprintf(out, "No match for %q\n", name)
				} else {
					fmt.Fprintf(out, "No match for %q (closest %q scored %d, threshold %d)\n", name, match.Key, match.Score, threshold)
				}
				return nil
			}

			player, _ := index.Player(match.ID)
			rows := [][]string{
				{"Query", name},
				{"Normalized", reconciliation.Normalize(name)},
				{"Player ID", strconv.FormatInt(match.ID, 10)},
				{"Canonical name", player.Name},
				{"Matched key", match.Key},
				{"Score", strconv.Itoa(match.Score)},
				{"Exact", yesNo(match.Exact)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Minimum fuzzy score (0-100); defaults to resolver.roster")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
