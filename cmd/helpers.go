package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/formgap/pkg/catalog"
	"github.com/sw33tLie/formgap/pkg/rules"
	"github.com/sw33tLie/formgap/pkg/session"
)

// loadCatalog reads the template named by the --template flag (falling
// back to the viper config) and parses it.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, string, error) {
	path, _ := cmd.Flags().GetString("template")
	if path == "" {
		path = viper.GetString("template")
	}
	if path == "" {
		return nil, "", fmt.Errorf("no template given: use --template or set it in the config file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	cat, err := catalog.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return cat, path, nil
}

// buildSelections turns repeated --set field=value flags into a selection
// state, then clears anything the selections themselves hide.
func buildSelections(cat *catalog.Catalog, sets []string) (*session.SelectionState, error) {
	sel := session.New()
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad --set value %q, want field=value", s)
		}
		sel.Set(key, value)
	}
	rules.PruneHidden(cat, sel)
	return sel, nil
}

func dbPathFromFlags(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("dbpath")
	if path == "" {
		path = viper.GetString("dbpath")
	}
	if path == "" {
		path = "formgap.sqlite"
	}
	return path
}
