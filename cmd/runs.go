package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/storage"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved analysis runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(dbPathFromFlags(cmd))
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No saved runs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tSOURCE\tDIMS\tTOTAL\tCOVERED\tGAPS\tN/A\tCOVERAGE\t")
		for _, r := range runs {
			dims := r.Dim1
			if r.Dim2 != "" {
				dims += " x " + r.Dim2
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\t\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source, dims,
				r.Total, r.Covered, r.Gaps, r.NotApplicable, r.CoveragePct)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if runID, _ := cmd.Flags().GetInt64("gaps"); runID > 0 {
			gaps, err := db.ListGaps(context.Background(), runID)
			if err != nil {
				return err
			}
			fmt.Println()
			gw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(gw, "DIM1\tDIM2\tSEVERITY\tMESSAGE\t")
			for _, g := range gaps {
				fmt.Fprintf(gw, "%s\t%s\t%s\t%s\t\n", g.Dim1Value, g.Dim2Value, g.Severity, g.Message)
			}
			return gw.Flush()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().String("dbpath", "", "Path to the sqlite database (default formgap.sqlite)")
	runsCmd.Flags().Int64("gaps", 0, "Also print the gap list of the given run id")
}
