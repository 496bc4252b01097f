package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"larder/frontend/exports"
	"larder/frontend/sheets"
)

// outputFile opens path for writing, or stdout when path is "-".
func (a *app) outputFile(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func newExportCmd(a *app) *cobra.Command {
	var f filterFlags
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered items as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.loadView(cmd, f)
			if err != nil {
				return err
			}
			now := time.Now()
			if out == "" {
				out = exports.ExportFileName("inventory", view.ActiveLocation(), view.ActiveSubcategory(), now, ".csv")
			}
			w, closeFn, err := a.outputFile(out)
			if err != nil {
				return err
			}
			if err := exports.WriteItemsCSV(w, view.Filtered(), now); err != nil {
				_ = closeFn()
				return fmt.Errorf("write csv: %w", err)
			}
			if err := closeFn(); err != nil {
				return err
			}
			if out != "-" {
				printSuccess(a.stderr, fmt.Sprintf("Exported %d items to %s", len(view.Filtered()), out))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, - for stdout (default derived from the filter)")
	return cmd
}

func newSheetCmd(a *app) *cobra.Command {
	var f filterFlags
	var out string
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Print the filtered items to a PDF inventory sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.loadView(cmd, f)
			if err != nil {
				return err
			}
			now := time.Now()
			pdfBytes, err := sheets.RenderInventorySheetPDF(sheets.SheetData{
				Title:     sheets.SheetTitle(view.ActiveLocation(), view.ActiveSubcategory()),
				Items:     view.Filtered(),
				PrintedAt: now,
			})
			if err != nil {
				return fmt.Errorf("render sheet: %w", err)
			}
			if out == "" {
				out = "inventory-sheet-" + now.Format("20060102") + ".pdf"
			}
			if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess(a.stderr, "Wrote "+out)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "output PDF path")
	return cmd
}
