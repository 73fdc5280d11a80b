package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the clients, proposals, invoices,
// line item, payments and expenses collections exist. Only raw document
// inputs are stored; totals are always recomputed on read.
func Setup(app *pocketbase.PocketBase) {
	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "gstin"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"lead", "active", "inactive"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes"})
		addTimestamps(c)
	})

	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			CollectionId: clients.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "proposal_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "title"})
		c.Fields.Add(&core.TextField{Name: "issue_date"})
		c.Fields.Add(&core.TextField{Name: "valid_until"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "sent", "accepted", "rejected", "converted"},
			MaxSelect: 1,
		})
		addAmountFields(c)
		c.Fields.Add(&core.TextField{Name: "notes"})
		addTimestamps(c)
	})

	invoices := ensureCollection(app, "invoices", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			CollectionId: clients.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "invoice_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "issue_date"})
		c.Fields.Add(&core.TextField{Name: "due_date"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "sent", "cancelled"},
			MaxSelect: 1,
		})
		addAmountFields(c)
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "terms"})
		c.Fields.Add(&core.RelationField{
			Name:         "proposal",
			CollectionId: proposals.Id,
			MaxSelect:    1,
		})
		addTimestamps(c)
	})

	ensureCollection(app, "invoice_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "invoice",
			Required:      true,
			CollectionId:  invoices.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		addLineItemFields(c)
	})

	ensureCollection(app, "proposal_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		addLineItemFields(c)
	})

	ensureCollection(app, "payments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "invoice",
			Required:      true,
			CollectionId:  invoices.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.TextField{Name: "paid_on"})
		c.Fields.Add(&core.TextField{Name: "method"})
		c.Fields.Add(&core.TextField{Name: "reference"})
		addTimestamps(c)
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "category"})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.TextField{Name: "spent_on"})
		addTimestamps(c)
	})
}

// addAmountFields adds the discount and tax configuration shared by
// invoices and proposals. Zero is a valid value for all three.
func addAmountFields(c *core.Collection) {
	c.Fields.Add(&core.NumberField{Name: "discount"})
	c.Fields.Add(&core.SelectField{
		Name:      "discount_type",
		Values:    []string{"percentage", "fixed"},
		MaxSelect: 1,
	})
	c.Fields.Add(&core.NumberField{Name: "tax_rate_percent"})
}

func addLineItemFields(c *core.Collection) {
	c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
	c.Fields.Add(&core.TextField{Name: "description", Required: true})
	c.Fields.Add(&core.NumberField{Name: "quantity"})
	c.Fields.Add(&core.NumberField{Name: "unit_price"})
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
