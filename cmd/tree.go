package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/amatino"
	"github.com/s0up4200/amatino/filter"
)

var (
	treeAt      string
	treeUnits   unitFlags
	treeFilter  string
	treePreset  string
	treeWorkers int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show an entity's account tree",
	Long: `Show every account in an entity with its balances. With --filter or
--preset only the accounts matching the expression are listed.

Filter expressions can use AccountID, Name, Type, Depth, Balance,
RecursiveBalance, Readable, HasChildren and ChildCount, the expr operators
(contains, startsWith, endsWith, matches, in) and builtins (lower, upper,
abs), plus the case-insensitive icontains, istartsWith and iendsWith and
isType.`,
	Example: `  amatino tree -e b5a3bd94 --global-unit 5
  amatino tree -e b5a3bd94 --global-unit 5 --filter 'isType("expense") and RecursiveBalance > 1000'
  amatino tree -e b5a3bd94 --global-unit 5 --filter 'icontains(Name, "cash")'`,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVar(&treeAt, "at", "", "balance time (default now)")
	treeUnits.register(treeCmd)
	treeCmd.MarkFlagsOneRequired("global-unit", "custom-unit")
	treeCmd.Flags().StringVarP(&treeFilter, "filter", "f", "", "filter expression")
	treeCmd.Flags().StringVarP(&treePreset, "preset", "p", "", "named filter from the config file")
	treeCmd.Flags().IntVar(&treeWorkers, "workers", 0, "filter goroutines (default GOMAXPROCS)")
	treeCmd.MarkFlagsMutuallyExclusive("filter", "preset")
}

// treeExpression resolves --filter or --preset, empty when neither is set
func treeExpression() (string, error) {
	if treePreset == "" {
		return treeFilter, nil
	}
	expression, ok := cfg.Filter.Presets[treePreset]
	if !ok {
		return "", fmt.Errorf("no filter preset named %q in config", treePreset)
	}
	return expression, nil
}

func runTree(cmd *cobra.Command, args []string) error {
	at, err := parseAt(treeAt)
	if err != nil {
		return err
	}
	expression, err := treeExpression()
	if err != nil {
		return err
	}

	var f filter.Filter
	if expression != "" {
		if f, err = filter.Compile(expression); err != nil {
			return err
		}
	}

	client, err := sessionClient()
	if err != nil {
		return err
	}
	tree, err := client.RetrieveTree(cmd.Context(), entityID, amatino.TreeQuery{
		At:           at,
		Denomination: treeUnits.denomination(),
	})
	if err != nil {
		return notFound(err, "entity %s", entityID)
	}

	formatter := NewConsoleFormatter()
	out := cmd.OutOrStdout()
	if f == nil {
		fmt.Fprint(out, formatter.FormatTree(tree))
		return nil
	}

	matches, err := filter.NewEvaluator(filter.WithWorkers(treeWorkers)).SelectTree(cmd.Context(), f, tree)
	if err != nil {
		var evalErr *filter.EvaluationError
		if errors.As(err, &evalErr) {
			logger.Error().Int64("account_id", evalErr.AccountID).Str("expression", evalErr.Expression).Msg("Filter failed")
		}
		return err
	}

	logger.Debug().Int("nodes", len(tree.Flatten())).Int("matches", len(matches)).Msg("Filtered tree")
	fmt.Fprint(out, formatter.FormatNodes(matches, f.Expression()))
	return nil
}
