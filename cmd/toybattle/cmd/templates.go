package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nfrund/toybattle/internal/catalog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Validate and list the catalog",
	Long: `Commands for the unit, bonus and skill catalog the match server loads.

Examples:
  toybattle templates validate data/catalog.yaml
  toybattle templates list`,
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a catalog file without starting the server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, path, err := loadCatalog(args)
		if err != nil {
			return fmt.Errorf("%s is invalid: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d units, %d bonuses, %d skills\n",
			path, len(cat.Templates()), len(cat.Bonuses()), len(cat.Skills()))
		return nil
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Print every unit template with its level-scaled stats",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, _, err := loadCatalog(args)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "ID\tKIND\tRARITY\tLEVEL\tHEALTH\tDAMAGE\tSTACK\tPRIORITY")
		fmt.Fprintln(w, "--\t----\t------\t-----\t------\t------\t-----\t--------")
		for _, t := range cat.Templates() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				t.ID, t.Kind, t.Rarity, t.Level, t.ScaledHealth(), t.ScaledDamage(),
				t.MaxStackPerSlot, t.FormationPriority)
		}
		return nil
	},
}

// loadCatalog reads the catalog named in args, or CATALOG_PATH.
func loadCatalog(args []string) (*catalog.Catalog, string, error) {
	path := os.Getenv("CATALOG_PATH")
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = "data/catalog.yaml"
	}
	cat, err := catalog.Load(afero.NewOsFs(), path)
	return cat, path, err
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	templatesCmd.AddCommand(templatesListCmd)
}
