package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCatalogCmd = &cobra.Command{
	Use:   "load-catalog <schema-file>",
	Short: "Load a catalog schema file and register its tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Catalog.LoadSchemaFile(args[0], dbRoot); err != nil {
			return err
		}
		for _, id := range db.Catalog.TableIDs() {
			name, _ := db.Catalog.TableName(id)
			fmt.Printf("%s\t%d\n", name, id)
		}
		return nil
	},
}
