package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/hashdict"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Resolve hashed workflow criterion values back to plaintext",
	Long: `Some workflow criteria store a one-way digest of a category value instead
of the plaintext. The plaintext universe is bounded (country codes, US
states, a field's own option list), so decrypt builds a digest dictionary
over every casing variant of every known value and looks each digest up.
Digests nothing resolves fall back to inference from the workflow name,
clearly tagged as inferred rather than decrypted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		st := hashdict.NewResolver(cat).ResolveWorkflows(cat)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WORKFLOW\tFIELD\tSTATUS\tVALUES\t")
		for _, wf := range cat.Workflows {
			for _, crit := range wf.Criteria {
				if !crit.Hashed {
					continue
				}
				status := "unresolved"
				switch {
				case crit.Decrypted:
					status = "decrypted"
				case crit.Inferred:
					status = "inferred"
				}
				vals := make([]string, 0, len(crit.Values))
				for _, v := range crit.Values {
					vals = append(vals, hashdict.DisplayValue(v))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", wf.Name, crit.FieldKey, status, strings.Join(vals, " | "))
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d hashed criteria: %d decrypted, %d inferred, %d unresolved\n",
			st.Hashed, st.Decrypted, st.Inferred, st.Unresolved)
		return nil
	},
}

// hashCmd represents the hash command, handy for checking what digest a
// given plaintext produces.
var hashCmd = &cobra.Command{
	Use:   "hash [value]",
	Short: "Print the digest of a plaintext value and its casing variants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "VARIANT\tDIGEST\t")
		for _, v := range hashdict.Variants(args[0]) {
			fmt.Fprintf(w, "%s\t%s\t\n", v, hashdict.Digest(v))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(hashCmd)
}
