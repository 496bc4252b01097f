package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"larder/frontend/inventory"
	"larder/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3A7D44")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#30d158"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff453a"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8e8e93"))

	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	soonStyle    = cellStyle.Foreground(lipgloss.Color("#e0a800"))
	expiredStyle = cellStyle.Foreground(lipgloss.Color("#ff453a")).Bold(true)
)

var itemHeaders = []string{"ID", "Name", "Quantity", "Pack", "Location", "Subcategory", "Expiry"}

// renderItems prints items as a table, colouring rows by expiry status.
func renderItems(w io.Writer, title string, items []models.Item, emptyMessage string, today time.Time) {
	fmt.Fprintln(w, titleStyle.Render(title))
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(emptyMessage))
		return
	}

	classes := make([]inventory.ExpiryClass, len(items))
	rows := make([][]string, len(items))
	for i, item := range items {
		card := inventory.NewItemCard(item, today)
		classes[i] = card.Expiry.Class
		expiry := card.ExpiryDate
		if card.Expiry.Text != "" {
			expiry += " (" + card.Expiry.Text + ")"
		}
		rows[i] = []string{models.FormatID(item.ID), card.Name, card.Quantity, card.PackType, card.Placement, card.Subcategory, expiry}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(itemHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(classes) {
				return cellStyle
			}
			switch classes[row] {
			case inventory.ExpiryExpired:
				return expiredStyle
			case inventory.ExpirySoon:
				return soonStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d items", len(items))))
}

func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render(message))
}
