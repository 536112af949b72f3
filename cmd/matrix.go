package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/coverage"
	"github.com/sw33tLie/formgap/pkg/hashdict"
	"github.com/sw33tLie/formgap/pkg/report"
)

// matrixCmd represents the matrix command
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Coverage matrix over two fixed dimensions (default: subject type by request type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		hashdict.NewResolver(cat).ResolveWorkflows(cat)

		dim1, _ := cmd.Flags().GetString("dim1")
		dim2, _ := cmd.Flags().GetString("dim2")
		if dim1 == "" {
			if f, ok := cat.FieldByRole(catalog.RoleIdentity); ok {
				dim1 = f.Key
			}
		}
		if dim2 == "" {
			if f, ok := cat.FieldByRole(catalog.RoleRequest); ok {
				dim2 = f.Key
			}
		}
		if dim1 == "" || dim2 == "" {
			fmt.Println("could not find subject-type and request-type fields in the template; pass --dim1 and --dim2")
			return nil
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		sel, err := buildSelections(cat, sets)
		if err != nil {
			return err
		}

		a := coverage.AnalyzeFixed(cat, sel, dim1, dim2)
		r := report.Build(a)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		r.Print(os.Stdout)
		fmt.Println()
		r.PrintMatrix(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.Flags().String("dim1", "", "First dimension field key")
	matrixCmd.Flags().String("dim2", "", "Second dimension field key")
	matrixCmd.Flags().StringArray("set", nil, "Pre-existing field selection as field=value (repeatable)")
	matrixCmd.Flags().Bool("json", false, "Print the full report as JSON")
}
