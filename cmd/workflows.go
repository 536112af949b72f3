package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/hashdict"
	"github.com/sw33tLie/formgap/pkg/workflow"
)

// workflowsCmd represents the workflows command
var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Evaluate every workflow against the given selections",
	Long: `Evaluates each workflow's criteria against the selections passed with
--set. Partial matches are shown too: a workflow matching 2 of 3 criteria
is close but not triggered, which is different from one matching nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		hashdict.NewResolver(cat).ResolveWorkflows(cat)

		sets, _ := cmd.Flags().GetStringArray("set")
		sel, err := buildSelections(cat, sets)
		if err != nil {
			return err
		}
		showDetail, _ := cmd.Flags().GetBool("detail")

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WORKFLOW\tEVENT\tTRIGGERED\tMATCHED\t")
		results := workflow.EvaluateAll(cat, sel)
		for _, res := range results {
			fmt.Fprintf(w, "%s\t%s\t%v\t%d/%d\t\n",
				res.Workflow.Name, res.Workflow.EventType, res.Triggered, res.MatchedCount, res.TotalCriteria)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !showDetail {
			return nil
		}
		for _, res := range results {
			for _, d := range res.Unmatched {
				wanted := make([]string, 0, len(d.Wanted))
				for _, v := range d.Wanted {
					wanted = append(wanted, hashdict.DisplayValue(v))
				}
				fmt.Printf("  %s: %s %s (selected %q, wants %s)\n",
					res.Workflow.Name, d.FieldKey, d.Reason, d.Selected, strings.Join(wanted, " | "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
	workflowsCmd.Flags().StringArray("set", nil, "Field selection as field=value (repeatable)")
	workflowsCmd.Flags().Bool("detail", false, "Print per-criterion mismatch detail")
}
