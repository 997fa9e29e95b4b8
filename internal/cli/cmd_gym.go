package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/service"
)

func newGymCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gym",
		Short: "Gym management",
	}
	cmd.AddCommand(
		newGymListCommand(deps),
		newGymAddCommand(deps),
		newGymUpdateCommand(deps),
		newGymDeleteCommand(deps),
	)
	return cmd
}

func newGymListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List gyms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("gym list does not accept positional arguments")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				gyms, err := inventory.ListGyms(ctx)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, gyms)
				}
				if len(gyms) == 0 {
					_, err := fmt.Fprintln(deps.out, "No gyms yet.")
					return err
				}
				return printGyms(deps.out, gyms)
			})
		},
	}
}

func newGymAddCommand(deps commandDeps) *cobra.Command {
	var input models.GymInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a gym",
		Example: "  gymlog gym add --name \"Iron Works\" --address \"12 Forge St\"\n" +
			"  gymlog gym add --name Pulse --address \"4 Beat Ave\" --notes \"Open 24/7\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("gym add does not accept positional arguments")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				gym, err := inventory.AddGym(ctx, input)
				if err != nil {
					return err
				}
				return printGym(deps, gym)
			})
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Gym name")
	cmd.Flags().StringVar(&input.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "Optional notes")
	return cmd
}

func newGymUpdateCommand(deps commandDeps) *cobra.Command {
	var name, address, notes string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("gym update requires exactly one gym id")
			}
			var update models.GymUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("address") {
				update.Address = &address
			}
			if cmd.Flags().Changed("notes") {
				update.Notes = &notes
			}
			if update == (models.GymUpdate{}) {
				return usageErrorf("gym update requires at least one of --name, --address or --notes")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				gym, err := inventory.UpdateGym(ctx, args[0], update)
				if err != nil {
					return err
				}
				return printGym(deps, gym)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&address, "address", "", "New address")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (empty clears them)")
	return cmd
}

func newGymDeleteCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a gym and all of its equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("gym delete requires exactly one gym id")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				if err := inventory.DeleteGym(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "Deleted gym %s\n", args[0])
				return err
			})
		},
	}
}

func printGym(deps commandDeps, gym *models.Gym) error {
	if deps.globals.JSON {
		return printJSON(deps.out, gym)
	}
	_, err := fmt.Fprintf(deps.out, "%s\t%s\t%s\n", gym.ID, gym.Name, gym.Address)
	return err
}

func printGyms(w io.Writer, gyms []models.Gym) error {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Name", "Address", "Updated"})
	for _, gym := range gyms {
		tw.AppendRow(table.Row{gym.ID, gym.Name, gym.Address, gym.UpdatedAt.Local().Format(time.DateTime)})
	}
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	return tw
}
