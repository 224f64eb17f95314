package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/mudstate/internal/injector"
)

func newConfgenCmd(app func() *injector.App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "confgen <source-folder> <output-folder>",
		Short: "Merge every authoring file into one world document",
		Long: "Reads YAML, CSV, TSV and JSON sources below the source folder, merges and " +
			"migrates them and writes a single JSON document to the output folder. " +
			"JSON files left in the output folder by earlier runs are removed first.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app().Loader.Generate(cmd.Context(), args[1], name, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "world.json", "name of the generated file")
	return cmd
}
