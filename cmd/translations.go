package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/formgap/pkg/translations"
)

// translationsCmd represents the translations command
var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Work with field translation files",
}

// translationsSyncCmd represents the translations sync command
var translationsSyncCmd = &cobra.Command{
	Use:   "sync [template.json] [translations.json]",
	Short: "Sync a translations file with the labels the template declares",
	Long: `Applies the template's en-us formTranslations labels to the fields
section of the translations file. Template labels always supersede manual
edits. The original file is backed up next to itself before writing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		templatePath, translationsPath := args[0], args[1]

		template, err := os.ReadFile(templatePath)
		if err != nil {
			return err
		}
		current, err := os.ReadFile(translationsPath)
		if err != nil {
			return err
		}

		updates, out, err := translations.Sync(template, current)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			fmt.Println("All translations are already in sync with the template labels.")
			return nil
		}

		for _, u := range updates {
			fmt.Printf("%s:\n  OLD: %s\n  NEW: %s\n", u.Field, u.Old, u.New)
		}

		ext := filepath.Ext(translationsPath)
		backupPath := strings.TrimSuffix(translationsPath, ext) + ".backup" + ext
		if err := os.WriteFile(backupPath, current, 0644); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
		if err := os.WriteFile(translationsPath, out, 0644); err != nil {
			return err
		}

		fmt.Printf("\nUpdated %d field(s); backup at %s\n", len(updates), backupPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translationsCmd)
	translationsCmd.AddCommand(translationsSyncCmd)
}
