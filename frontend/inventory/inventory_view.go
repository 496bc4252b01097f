package inventory

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"larder/frontend/shared/html"
	"larder/models"
)

// InventoryPage renders the full item grid page.
func InventoryPage(data PageData) templ.Component {
	return html.Layout("Larder Inventory", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<main class="container">`)
		p.raw(`<header class="page-header"><h1>Larder</h1><div class="actions">`)
		p.raw(`<button class="btn btn-primary" type="button" onclick="openDialog('add-item-modal')">Add Item</button>`)
		p.raw(`<button class="btn" type="button" onclick="openDialog('remove-item-modal')">Remove Quantity</button>`)
		p.raw(`<button class="btn" type="button" onclick="openDialog('import-modal')">Import Items</button>`)
		p.raw(`<button class="btn" type="button" onclick="openDialog('inventory-update-modal')">Update Inventory</button>`)
		p.raw(`<a class="btn" href="` + p.attr(data.ExportHref) + `">Export CSV</a>`)
		p.raw(`<a class="btn" href="` + p.attr(data.SheetHref) + `" target="_blank">Print Sheet</a>`)
		p.raw(`<a class="btn" href="/help">Help</a>`)
		p.raw(`</div></header>`)

		if data.Flash.Message != "" {
			p.raw(`<div id="notification" class="notification ` + p.attr(data.Flash.Level) + `" role="status">`)
			p.text(data.Flash.Message)
			p.raw(`</div>`)
		}

		p.raw(`<nav class="location-tabs">`)
		for _, tab := range data.Tabs {
			p.raw(`<a class="tab-btn` + activeClass(tab.Active) + `" href="` + p.attr(tab.Href) + `">`)
			p.text(tab.Label)
			p.raw(`</a>`)
		}
		p.raw(`</nav><nav class="subcategory-filters">`)
		for _, f := range data.Filters {
			p.raw(`<a class="filter-btn` + activeClass(f.Active) + `" href="` + p.attr(f.Href) + `">`)
			p.text(f.Label)
			p.raw(`</a>`)
		}
		p.raw(`</nav>`)

		p.raw(`<section id="items-container" class="items-grid">`)
		if len(data.Cards) == 0 {
			p.raw(`<div class="empty-state">`)
			p.text(data.EmptyMessage)
			p.raw(`</div>`)
		}
		for _, card := range data.Cards {
			p.card(card)
		}
		p.raw(`</section>`)

		if len(data.Activity) > 0 {
			p.raw(`<aside class="activity"><h2>Recent activity</h2><ul>`)
			for _, a := range data.Activity {
				p.raw(`<li class="` + p.attr(a.Level) + `"><time>`)
				p.text(a.At)
				p.raw(`</time> `)
				p.text(a.Message)
				p.raw(`</li>`)
			}
			p.raw(`</ul></aside>`)
		}
		p.raw(`</main>`)

		p.addDialog(data)
		p.removeDialog(data)
		p.importDialog()
		p.updateDialogs()
		p.raw(pageScript)
		return p.err
	}))
}

type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) attr(s string) string {
	return templ.EscapeString(s)
}

func activeClass(active bool) string {
	if active {
		return " active"
	}
	return ""
}

func (p *pageWriter) card(c ItemCard) {
	id := strconv.FormatInt(c.ID, 10)
	p.raw(`<article class="item-card ` + p.attr(string(c.Expiry.Class)) + `" data-id="` + id + `"><div class="item-content"><div class="item-header"><span class="item-title">`)
	p.text(c.Name)
	p.raw(`</span><span class="item-category">`)
	p.text(c.Quantity)
	p.raw(`</span></div><div class="item-details">`)
	p.detail("Location", c.Placement)
	if c.Subcategory != "" {
		p.detail("Subcategory", c.Subcategory)
	}
	p.detail("Pack Type", c.PackType)
	p.raw(`<div class="item-detail"><span class="detail-label">Expiry:</span><span class="` + p.attr(string(c.Expiry.Class)) + `">`)
	p.text(c.ExpiryDate)
	if c.Expiry.Text != "" {
		p.raw(` <em>`)
		p.text(c.Expiry.Text)
		p.raw(`</em>`)
	}
	p.raw(`</span></div></div></div>`)
	p.raw(`<div class="item-actions"><form method="POST" action="/inventory/items/` + id + `/delete" onsubmit="return confirm('Are you sure you want to delete this item?')">`)
	p.raw(`<button class="btn btn-small btn-danger" type="submit">Delete</button></form></div></article>`)
}

func (p *pageWriter) detail(label, value string) {
	p.raw(`<div class="item-detail"><span class="detail-label">`)
	p.text(label)
	p.raw(`:</span><span>`)
	p.text(value)
	p.raw(`</span></div>`)
}

func (p *pageWriter) options(values []string, selected string) {
	for _, v := range values {
		sel := ""
		if v == selected {
			sel = " selected"
		}
		p.raw(`<option value="` + p.attr(v) + `"` + sel + `>`)
		p.text(v)
		p.raw(`</option>`)
	}
}

func (p *pageWriter) addDialog(data PageData) {
	location := data.Location
	if location == All {
		location = models.LocationPantry
	}
	p.raw(`<dialog id="add-item-modal" class="modal"><form method="POST" action="/inventory/items" class="modal-box"><h3>Add Item</h3>`)
	p.raw(`<label>Name<input name="name" required></label>`)
	p.raw(`<label>Location<select name="location">`)
	p.options([]string{models.LocationFreezer, models.LocationFridge, models.LocationPantry}, location)
	p.raw(`</select></label>`)
	p.raw(`<label>Pantry location<select name="pantryLocation"><option value="">-</option><option value="kitchen">Kitchen Pantry</option><option value="basement">Basement Storage</option></select></label>`)
	p.raw(`<label>Subcategory<input name="subcategory" list="subcategory-options"></label><datalist id="subcategory-options">`)
	p.options(append(CanonicalSubcategories(), data.Subcategories...), "")
	p.raw(`</datalist>`)
	p.raw(`<label>Pack type<input name="packType"></label>`)
	p.raw(`<label>Quantity<input name="quantity" required placeholder="e.g. 3 lbs"></label>`)
	p.raw(`<label>Expiry date<input type="date" name="expiry_date" required value="` + p.attr(data.DefaultExpiry) + `"></label>`)
	p.raw(`<div class="modal-action"><button class="btn btn-primary" type="submit">Add</button><button class="btn" type="button" onclick="closeDialogs()">Cancel</button></div></form></dialog>`)
}

func (p *pageWriter) removeDialog(data PageData) {
	p.raw(`<dialog id="remove-item-modal" class="modal"><form method="POST" action="/inventory/remove" class="modal-box"><h3>Remove Quantity</h3>`)
	p.raw(`<label>Item<select name="item_id" id="remove-item-select" onchange="prefillRemoval(this.value)"><option value="">Select an item</option>`)
	for _, c := range data.Cards {
		p.raw(`<option value="` + strconv.FormatInt(c.ID, 10) + `">`)
		p.text(c.Name + " (" + c.Quantity + ")")
		p.raw(`</option>`)
	}
	p.raw(`</select></label>`)
	p.raw(`<p id="remove-item-details" class="hint"></p>`)
	p.raw(`<label>Quantity to remove<input name="quantity_to_remove" id="remove-quantity" inputmode="decimal" required></label>`)
	p.raw(`<div class="modal-action"><button class="btn btn-primary" type="submit">Remove</button><button class="btn" type="button" onclick="closeDialogs()">Cancel</button></div></form></dialog>`)
}

func (p *pageWriter) importDialog() {
	p.raw(`<dialog id="import-modal" class="modal"><form method="POST" action="/inventory/import" enctype="multipart/form-data" class="modal-box"><h3>Import Items</h3>`)
	p.raw(`<label>File (CSV or Excel)<input type="file" name="file" accept=".csv,.xlsx,.xls" required></label>`)
	p.raw(`<label>Location<select name="location"><option value="">From file</option><option value="freezer">Freezer</option><option value="fridge">Fridge</option><option value="pantry">Pantry</option></select></label>`)
	p.raw(`<label>Specific location<select name="specificLocation"><option value="">-</option><option value="kitchen">Kitchen Pantry</option><option value="basement">Basement Storage</option></select></label>`)
	p.raw(`<div class="modal-action"><button class="btn btn-primary" type="submit">Import</button><button class="btn" type="button" onclick="closeDialogs()">Cancel</button></div></form></dialog>`)
}

func (p *pageWriter) updateDialogs() {
	p.raw(`<dialog id="inventory-update-modal" class="modal"><form id="inventory-update-form" method="POST" action="/inventory/update" enctype="multipart/form-data" class="modal-box"><h3>Update Inventory</h3>`)
	p.raw(`<label>File (CSV or Excel)<input type="file" name="file" accept=".csv,.xlsx,.xls" required></label>`)
	p.raw(`<label>Location<select name="location"><option value="freezer">Freezer</option><option value="fridge">Fridge</option><option value="pantry">Pantry</option></select></label>`)
	p.raw(`<label>Sublocation<input name="sublocation"></label>`)
	p.raw(`<div class="modal-action"><button class="btn btn-primary" type="button" onclick="confirmInventoryUpdate()">Continue</button><button class="btn" type="button" onclick="closeDialogs()">Cancel</button></div></form></dialog>`)
	p.raw(`<dialog id="confirmation-modal" class="modal"><div class="modal-box"><h3>Replace existing inventory?</h3><p>Replace every item at this location with the file contents, or only add the new items?</p>`)
	p.raw(`<div class="modal-action"><button class="btn btn-danger" type="submit" form="inventory-update-form" name="update_all" value="true">Replace all</button>`)
	p.raw(`<button class="btn" type="submit" form="inventory-update-form" name="update_all" value="false">Add only</button>`)
	p.raw(`<button class="btn" type="button" onclick="closeDialogs()">Cancel</button></div></div></dialog>`)
}

const pageScript = `<script>
function openDialog(id) {
  closeDialogs();
  var d = document.getElementById(id);
  if (d) d.showModal();
}
function closeDialogs() {
  document.querySelectorAll("dialog[open]").forEach(function (d) { d.close(); });
}
function confirmInventoryUpdate() {
  var form = document.getElementById("inventory-update-form");
  if (!form.reportValidity()) return;
  openDialog("confirmation-modal");
}
function prefillRemoval(id) {
  var details = document.getElementById("remove-item-details");
  var qty = document.getElementById("remove-quantity");
  details.textContent = "";
  if (!id) return;
  fetch("/inventory/items/" + encodeURIComponent(id), { headers: { "Accept": "application/json" } })
    .then(function (r) { return r.ok ? r.json() : null; })
    .then(function (item) {
      if (!item) return;
      details.textContent = "Available: " + item.quantity + (item.packType ? " (" + item.packType + ")" : "");
      qty.value = item.quantityPrefix || "";
    });
}
setTimeout(function () {
  var n = document.getElementById("notification");
  if (n) n.classList.add("fade");
}, 3000);
</script>`
