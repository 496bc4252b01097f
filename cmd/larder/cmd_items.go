package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"larder/frontend/inventory"
	"larder/models"
)

// filterFlags are the location and subcategory selections shared by read commands.
type filterFlags struct {
	location    string
	subcategory string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.location, "location", "l", inventory.All, "location filter (all, freezer, fridge, pantry, kitchen, basement)")
	cmd.Flags().StringVarP(&f.subcategory, "subcategory", "s", inventory.All, "subcategory filter")
}

// loadView fetches the items and applies the filter exactly as the web view does.
func (a *app) loadView(cmd *cobra.Command, f filterFlags) (*inventory.View, error) {
	items, err := a.client(nil).ListItems(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("Error fetching items: %w", err)
	}
	view := inventory.NewView()
	view.Load(items)
	view.SetFilter(f.location, f.subcategory)
	return view, nil
}

func newListCmd(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items for a location and subcategory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.loadView(cmd, f)
			if err != nil {
				return err
			}
			location, subcategory := view.ActiveLocation(), view.ActiveSubcategory()
			title := "Inventory: " + inventory.LocationLabel(location)
			if subcategory != inventory.All {
				title += " / " + subcategory
			}
			renderItems(a.stdout, title, view.Filtered(), inventory.EmptyMessage(location, subcategory), time.Now())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var item models.NewItem
	var pantry string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item.Name = strings.TrimSpace(args[0])
			item.Location = strings.ToLower(strings.TrimSpace(item.Location))
			if item.Location == "" {
				item.Location = models.LocationPantry
			}
			item.PantryLocation = inventory.PantryLocationLabel(pantry)
			if item.ExpiryDate == "" {
				item.ExpiryDate = inventory.DefaultExpiry(time.Now())
			}
			if err := inventory.ValidateNewItem(item); err != nil {
				return err
			}
			created, err := a.client(nil).AddItem(cmd.Context(), item)
			if err != nil {
				return fmt.Errorf("Error adding item: %w", err)
			}
			printSuccess(a.stdout, fmt.Sprintf("Item added successfully! (id %d)", created.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&item.Quantity, "quantity", "q", "", "quantity with unit, e.g. \"3 lbs\"")
	cmd.Flags().StringVar(&item.PackType, "pack-type", "", "pack type")
	cmd.Flags().StringVarP(&item.Location, "location", "l", models.LocationPantry, "storage location")
	cmd.Flags().StringVar(&pantry, "pantry", "", "pantry location (kitchen or basement)")
	cmd.Flags().StringVarP(&item.Subcategory, "subcategory", "s", "", "subcategory")
	cmd.Flags().StringVarP(&item.ExpiryDate, "expiry", "e", "", "expiry date YYYY-MM-DD (default three months from today)")
	return cmd
}

func newConsumeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consume ID AMOUNT",
		Short: "Remove an amount from an item's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := inventory.ParseAmount(args[1])
			if err != nil {
				return err
			}
			view, err := a.loadView(cmd, filterFlags{location: inventory.All, subcategory: inventory.All})
			if err != nil {
				return err
			}
			req, err := view.ApplyQuantityRemoval(id, amount)
			if err != nil {
				return err
			}
			result, err := a.client(nil).UpdateQuantity(cmd.Context(), req.ItemID, req.Amount)
			if err != nil {
				return fmt.Errorf("Error updating item quantity: %w", err)
			}
			message := result.Message
			if message == "" {
				message = "Item quantity updated"
			}
			if result.Item != nil {
				message += " (now " + result.Item.Quantity.String() + ")"
			}
			printSuccess(a.stdout, message)
			return nil
		},
	}
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client(nil).DeleteItem(cmd.Context(), id); err != nil {
				return fmt.Errorf("Error deleting item: %w", err)
			}
			printSuccess(a.stdout, "Item deleted successfully!")
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
