package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/mudstate/internal/core/loader"
	"github.com/zeusync/mudstate/internal/core/storage"
	"github.com/zeusync/mudstate/internal/injector"
)

func newCheckCmd(app func() *injector.App) *cobra.Command {
	var withSave bool
	cmd := &cobra.Command{
		Use:   "check [data-folder]",
		Short: "Load the authoring data, and optionally the save file, into a world",
		Long: "Loads every source below the data folder (MUD_DATA_DIR when omitted) into " +
			"a fresh world and reports how many objects were created. With --save the " +
			"save file (MUD_SAVE_FILE) is restored on top when it exists.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			dir := a.Config.DataDir
			if len(args) == 1 {
				dir = args[0]
			}
			ctx := cmd.Context()
			if err := a.Loader.LoadWorld(ctx, a.World, dir); err != nil {
				return err
			}
			if withSave {
				data, err := a.Loader.ReadSnapshot(ctx, a.Config.SaveFile)
				var ioErr *loader.IOError
				switch {
				case errors.As(err, &ioErr) && errors.Is(err, storage.ErrNotFound):
				case err != nil:
					return err
				default:
					if err := a.Loader.Instantiate(data, a.World); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "objects: %d\n", a.World.Count())
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSave, "save", false, "also restore the save file")
	return cmd
}
