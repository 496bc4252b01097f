package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"larder/frontend/inventory"
	"larder/infrastructure/backend"
)

func openUpload(path string) (backend.Upload, func(), error) {
	if err := inventory.ValidateImportFileName(filepath.Base(path)); err != nil {
		return backend.Upload{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return backend.Upload{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return backend.Upload{FileName: filepath.Base(path), Body: f}, func() { f.Close() }, nil
}

func newImportCmd(a *app) *cobra.Command {
	var location, specific string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import items from a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, closeFn, err := openUpload(args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			result, err := a.client(nil).ImportItems(cmd.Context(), backend.ImportRequest{
				File:             upload,
				Location:         location,
				SpecificLocation: specific,
			})
			if err != nil {
				return fmt.Errorf("Error importing items: %w", err)
			}
			printSuccess(a.stdout, fmt.Sprintf("Items imported successfully! (%d items in inventory)", len(result.Items)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "location for every imported row")
	cmd.Flags().StringVar(&specific, "specific-location", "", "pantry location for every imported row (kitchen or basement)")
	return cmd
}

func newUpdateInventoryCmd(a *app) *cobra.Command {
	var location, sublocation string
	var replace bool
	cmd := &cobra.Command{
		Use:   "update-inventory FILE",
		Short: "Replace or extend a location's inventory from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, closeFn, err := openUpload(args[0])
			if err != nil {
				return err
			}
			defer closeFn()
			result, err := a.client(nil).UpdateInventory(cmd.Context(), backend.InventoryUpdateRequest{
				File:        upload,
				Location:    location,
				Sublocation: sublocation,
				UpdateAll:   replace,
			})
			if err != nil {
				if replace {
					return fmt.Errorf("Error updating inventory: %w", err)
				}
				return fmt.Errorf("Error adding items: %w", err)
			}
			message := result.Message
			if message == "" {
				message = "Items added to inventory successfully!"
				if replace {
					message = "Inventory updated successfully!"
				}
			}
			printSuccess(a.stdout, message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "pantry", "location to update")
	cmd.Flags().StringVar(&sublocation, "sublocation", "", "sublocation to update")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace every item at the location instead of only adding")
	return cmd
}
