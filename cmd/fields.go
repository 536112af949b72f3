package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/rules"
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the template's fields and their visibility under the given selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		sets, _ := cmd.Flags().GetStringArray("set")
		sel, err := buildSelections(cat, sets)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tTYPE\tROLE\tREQUIRED\tACTIVE\tVISIBLE\tLABEL\t")
		for _, f := range cat.Fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%v\t%s\t\n",
				f.Key, f.DisplayType, f.Role, f.Required, f.Active(), rules.IsVisible(cat, f, sel), f.Label)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringArray("set", nil, "Field selection as field=value (repeatable)")
}
