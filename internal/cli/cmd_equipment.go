package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/service"
)

func newEquipmentCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"eq"},
		Short:   "Equipment management",
	}
	cmd.AddCommand(
		newEquipmentListCommand(deps),
		newEquipmentAddCommand(deps),
		newEquipmentUpdateCommand(deps),
		newEquipmentToggleCommand(deps),
		newEquipmentDeleteCommand(deps),
	)
	return cmd
}

func newEquipmentListCommand(deps commandDeps) *cobra.Command {
	var gymID string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List equipment, optionally for one gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("equipment list does not accept positional arguments")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				equipment, err := inventory.ListEquipment(ctx, gymID)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, equipment)
				}
				if len(equipment) == 0 {
					_, err := fmt.Fprintln(deps.out, "No equipment logged yet.")
					return err
				}
				return printEquipment(deps.out, equipment)
			})
		},
	}

	cmd.Flags().StringVar(&gymID, "gym", "", "Only list equipment of this gym id")
	return cmd
}

func newEquipmentAddCommand(deps commandDeps) *cobra.Command {
	var (
		input       models.EquipmentInput
		category    string
		unavailable bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add equipment to a gym",
		Example: "  gymlog equipment add --gym <gym-id> --name \"Flat Bench\" --category bench\n" +
			"  gymlog equipment add --gym <gym-id> --name Treadmill --category treadmill --brand \"Life Fitness\" --model 95T",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("equipment add does not accept positional arguments")
			}
			if input.GymID == "" {
				return usageErrorf("equipment add requires --gym")
			}
			parsed, err := models.ParseCategory(category)
			if err != nil {
				return usageErrorf("%v", err)
			}
			input.Category = parsed
			if unavailable {
				available := false
				input.IsAvailable = &available
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				item, err := inventory.AddEquipment(ctx, input)
				if err != nil {
					return err
				}
				return printItem(deps, item)
			})
		},
	}

	cmd.Flags().StringVar(&input.GymID, "gym", "", "Gym id")
	cmd.Flags().StringVar(&input.Name, "name", "", "Equipment name")
	cmd.Flags().StringVar(&category, "category", "", "Category (see 'gymlog categories'); defaults to Other")
	cmd.Flags().StringVar(&input.Brand, "brand", "", "Brand")
	cmd.Flags().StringVar(&input.Model, "model", "", "Model")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "Notes")
	cmd.Flags().BoolVar(&unavailable, "unavailable", false, "Record the item as currently unavailable")
	return cmd
}

func newEquipmentUpdateCommand(deps commandDeps) *cobra.Command {
	var (
		gymID, name, category, brand, model, notes string
		available                                  bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("equipment update requires exactly one equipment id")
			}
			var update models.EquipmentUpdate
			flags := cmd.Flags()
			if flags.Changed("gym") {
				update.GymID = &gymID
			}
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("category") {
				parsed, err := models.ParseCategory(category)
				if err != nil {
					return usageErrorf("%v", err)
				}
				update.Category = &parsed
			}
			if flags.Changed("brand") {
				update.Brand = &brand
			}
			if flags.Changed("model") {
				update.Model = &model
			}
			if flags.Changed("notes") {
				update.Notes = &notes
			}
			if flags.Changed("available") {
				update.IsAvailable = &available
			}
			if update == (models.EquipmentUpdate{}) {
				return usageErrorf("equipment update requires at least one field flag")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				item, err := inventory.UpdateEquipment(ctx, args[0], update)
				if err != nil {
					return err
				}
				return printItem(deps, item)
			})
		},
	}

	cmd.Flags().StringVar(&gymID, "gym", "", "Move to another gym id")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&brand, "brand", "", "New brand")
	cmd.Flags().StringVar(&model, "model", "", "New model")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	cmd.Flags().BoolVar(&available, "available", true, "Set availability")
	return cmd
}

func newEquipmentToggleCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the availability of a piece of equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("equipment toggle requires exactly one equipment id")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				item, err := inventory.ToggleAvailability(ctx, args[0])
				if err != nil {
					return err
				}
				return printItem(deps, item)
			})
		},
	}
}

func newEquipmentDeleteCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a piece of equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("equipment delete requires exactly one equipment id")
			}
			return withInventory(cmd.Context(), deps, false, func(ctx context.Context, inventory *service.InventoryService) error {
				if err := inventory.DeleteEquipment(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(deps.out, "Deleted equipment %s\n", args[0])
				return err
			})
		},
	}
}

func newCategoriesCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List equipment categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("categories does not accept positional arguments")
			}
			categories := models.Categories()
			if deps.globals.JSON {
				return mapCommandError(printJSON(deps.out, categories))
			}
			for _, category := range categories {
				if _, err := fmt.Fprintln(deps.out, category); err != nil {
					return mapCommandError(err)
				}
			}
			return nil
		},
	}
}

func availability(item models.Equipment) string {
	if item.IsAvailable {
		return "available"
	}
	return "unavailable"
}

func printItem(deps commandDeps, item *models.Equipment) error {
	if deps.globals.JSON {
		return printJSON(deps.out, item)
	}
	_, err := fmt.Fprintf(deps.out, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, availability(*item))
	return err
}

func printEquipment(w io.Writer, equipment []models.Equipment) error {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Gym", "Name", "Category", "Details", "Status"})
	for _, item := range equipment {
		tw.AppendRow(table.Row{item.ID, item.GymID, item.Name, item.Category, item.Details(), availability(item)})
	}
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
