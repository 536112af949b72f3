package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/internal/utils"
	"github.com/sw33tLie/formgap/pkg/coverage"
	"github.com/sw33tLie/formgap/pkg/hashdict"
	"github.com/sw33tLie/formgap/pkg/report"
	"github.com/sw33tLie/formgap/pkg/storage"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find workflow coverage gaps across the two most referenced decision dimensions",
	Long: `Discovers the two fields workflows reference most, enumerates every value
each can take, and checks every value combination for a triggering
workflow. Combinations the visibility rules provably rule out are excluded
from the gap count; everything else uncovered is a gap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, source, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		st := hashdict.NewResolver(cat).ResolveWorkflows(cat)
		if st.Hashed > 0 {
			utils.Log.Infof("hashed criteria: %d decrypted, %d inferred, %d unresolved", st.Decrypted, st.Inferred, st.Unresolved)
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		sel, err := buildSelections(cat, sets)
		if err != nil {
			return err
		}

		a := coverage.Analyze(cat, sel)
		r := report.Build(a)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(r); err != nil {
				return err
			}
		} else {
			r.Print(os.Stdout)
			if showMatrix, _ := cmd.Flags().GetBool("matrix"); showMatrix {
				fmt.Println()
				r.PrintMatrix(os.Stdout)
			}
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			db, err := storage.Open(dbPathFromFlags(cmd))
			if err != nil {
				return err
			}
			defer db.Close()
			runID, err := db.SaveRun(context.Background(), source, r)
			if err != nil {
				return err
			}
			utils.Log.Infof("saved analysis run %d", runID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringArray("set", nil, "Pre-existing field selection as field=value (repeatable)")
	analyzeCmd.Flags().Bool("json", false, "Print the full report as JSON")
	analyzeCmd.Flags().Bool("matrix", false, "Also print the full coverage matrix")
	analyzeCmd.Flags().Bool("save", false, "Persist the run to the database")
	analyzeCmd.Flags().String("dbpath", "", "Path to the sqlite database (default formgap.sqlite)")
}
