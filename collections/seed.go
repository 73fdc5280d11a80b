package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineItemDef struct {
	description string
	quantity    float64
	unitPrice   float64
}

type clientDef struct {
	name    string
	company string
	email   string
	phone   string
	gstin   string
	address string
	status  string
}

type documentDef struct {
	number         string
	title          string
	issueDate      string
	secondDate     string // due_date for invoices, valid_until for proposals
	status         string
	discount       float64
	discountType   string
	taxRatePercent float64
	notes          string
	items          []lineItemDef
}

type paymentDef struct {
	amount    float64
	paidOn    string
	method    string
	reference string
}

type expenseDef struct {
	description string
	category    string
	amount      float64
	spentOn     string
}

// Seed inserts a demo client with one invoice, one proposal and a few
// expenses. It does nothing when any client already exists.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if clients already exist ───────────────────
	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	existing, err := app.FindAllRecords(clientsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query clients: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: clients collection is empty – inserting demo data …")

	cols := map[string]*core.Collection{}
	for _, name := range []string{"invoices", "invoice_line_items", "payments", "proposals", "proposal_line_items", "expenses"} {
		c, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("seed: could not find %s collection: %w", name, err)
		}
		cols[name] = c
	}

	// ── helper: create line items under a document ───────────────────
	createLineItems := func(collection, relation, docID string, items []lineItemDef) error {
		for i, d := range items {
			r := core.NewRecord(cols[collection])
			r.Set(relation, docID)
			r.Set("sort_order", i+1)
			r.Set("description", d.description)
			r.Set("quantity", d.quantity)
			r.Set("unit_price", d.unitPrice)
			if err := app.Save(r); err != nil {
				return fmt.Errorf("seed: save %s %q: %w", collection, d.description, err)
			}
		}
		return nil
	}

	// ── client ───────────────────────────────────────────────────────
	cd := clientDef{
		name:    "Kavya Rao",
		company: "Lotus Hospitality Pvt Ltd",
		email:   "accounts@lotushospitality.in",
		phone:   "9845012345",
		gstin:   "29AAECL1234F1Z5",
		address: "4th Floor, Prestige Tower, Residency Road, Bangalore, Karnataka 560025",
		status:  "active",
	}
	client := core.NewRecord(clientsCol)
	client.Set("name", cd.name)
	client.Set("company", cd.company)
	client.Set("email", cd.email)
	client.Set("phone", cd.phone)
	client.Set("gstin", cd.gstin)
	client.Set("address", cd.address)
	client.Set("status", cd.status)
	if err := app.Save(client); err != nil {
		return fmt.Errorf("seed: save client %q: %w", cd.name, err)
	}

	// ── proposal ─────────────────────────────────────────────────────
	pd := documentDef{
		number:         "PRP-25-26-001",
		title:          "Brand refresh and website",
		issueDate:      "2026-01-05",
		secondDate:     "2026-02-04",
		status:         "sent",
		discount:       10,
		discountType:   "percentage",
		taxRatePercent: 18,
		notes:          "Timeline: 6 weeks from approval.",
		items: []lineItemDef{
			{"Brand identity workshop", 1, 45000},
			{"Website design (10 pages)", 10, 8500},
			{"Content writing", 10, 2250.50},
		},
	}
	proposal := core.NewRecord(cols["proposals"])
	proposal.Set("client", client.Id)
	proposal.Set("proposal_number", pd.number)
	proposal.Set("title", pd.title)
	proposal.Set("issue_date", pd.issueDate)
	proposal.Set("valid_until", pd.secondDate)
	proposal.Set("status", pd.status)
	proposal.Set("discount", pd.discount)
	proposal.Set("discount_type", pd.discountType)
	proposal.Set("tax_rate_percent", pd.taxRatePercent)
	proposal.Set("notes", pd.notes)
	if err := app.Save(proposal); err != nil {
		return fmt.Errorf("seed: save proposal %q: %w", pd.number, err)
	}
	if err := createLineItems("proposal_line_items", "proposal", proposal.Id, pd.items); err != nil {
		return err
	}

	// ── invoice ──────────────────────────────────────────────────────
	inv := documentDef{
		number:         "INV-25-26-001",
		issueDate:      "2026-01-10",
		secondDate:     "2026-01-25",
		status:         "sent",
		discountType:   "fixed",
		taxRatePercent: 18,
		notes:          "Thank you for your business.",
		items: []lineItemDef{
			{"Social media retainer – January", 1, 35000},
			{"Ad creatives", 6, 1250.50},
		},
	}
	invoice := core.NewRecord(cols["invoices"])
	invoice.Set("client", client.Id)
	invoice.Set("invoice_number", inv.number)
	invoice.Set("issue_date", inv.issueDate)
	invoice.Set("due_date", inv.secondDate)
	invoice.Set("status", inv.status)
	invoice.Set("discount", inv.discount)
	invoice.Set("discount_type", inv.discountType)
	invoice.Set("tax_rate_percent", inv.taxRatePercent)
	invoice.Set("notes", inv.notes)
	invoice.Set("terms", "Payment due within 15 days. Bank: HDFC Bank, A/C 50200012345678, IFSC HDFC0000123.")
	if err := app.Save(invoice); err != nil {
		return fmt.Errorf("seed: save invoice %q: %w", inv.number, err)
	}
	if err := createLineItems("invoice_line_items", "invoice", invoice.Id, inv.items); err != nil {
		return err
	}

	payments := []paymentDef{
		{20000, "2026-01-20", "bank_transfer", "NEFT-HDFC-88213"},
	}
	for _, d := range payments {
		r := core.NewRecord(cols["payments"])
		r.Set("invoice", invoice.Id)
		r.Set("amount", d.amount)
		r.Set("paid_on", d.paidOn)
		r.Set("method", d.method)
		r.Set("reference", d.reference)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save payment %q: %w", d.reference, err)
		}
	}

	// ── expenses ─────────────────────────────────────────────────────
	expenses := []expenseDef{
		{"Adobe Creative Cloud", "Software", 4230, "2026-01-03"},
		{"Stock photography", "Marketing", 1800, "2026-01-08"},
	}
	for _, d := range expenses {
		r := core.NewRecord(cols["expenses"])
		r.Set("description", d.description)
		r.Set("category", d.category)
		r.Set("amount", d.amount)
		r.Set("spent_on", d.spentOn)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save expense %q: %w", d.description, err)
		}
	}

	log.Printf("seed: inserted client %q, invoice %s, proposal %s and %d expenses",
		cd.name, inv.number, pd.number, len(expenses))
	return nil
}
