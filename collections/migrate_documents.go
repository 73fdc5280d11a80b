package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateDocumentDefaults backfills fields that older invoice and proposal
// records may have left empty: discount_type becomes "fixed" and status
// becomes "draft". Safe to call on every startup.
func MigrateDocumentDefaults(app *pocketbase.PocketBase) error {
	for _, name := range []string{"invoices", "proposals"} {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("migrate_documents: could not find %s collection: %w", name, err)
		}

		records, err := app.FindRecordsByFilter(col, "discount_type = '' || status = ''", "", 0, 0, nil)
		if err != nil {
			return fmt.Errorf("migrate_documents: could not query %s: %w", name, err)
		}
		if len(records) == 0 {
			continue
		}

		log.Printf("migrate_documents: backfilling defaults on %d %s record(s)\n", len(records), name)

		for _, rec := range records {
			if rec.GetString("discount_type") == "" {
				rec.Set("discount_type", "fixed")
			}
			if rec.GetString("status") == "" {
				rec.Set("status", "draft")
			}
			if err := app.Save(rec); err != nil {
				log.Printf("migrate_documents: failed to update %s %s: %v\n", name, rec.Id, err)
				continue
			}
		}
	}
	return nil
}

// MigrateConvertedProposals marks every proposal that an invoice was created
// from as converted, so it is locked against further edits. Safe to call on
// every startup.
func MigrateConvertedProposals(app *pocketbase.PocketBase) error {
	invoices, err := app.FindRecordsByFilter("invoices", "proposal != ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate_documents: could not query linked invoices: %w", err)
	}

	for _, inv := range invoices {
		proposal, err := app.FindRecordById("proposals", inv.GetString("proposal"))
		if err != nil || proposal.GetString("status") == "converted" {
			continue
		}

		proposal.Set("status", "converted")
		if err := app.Save(proposal); err != nil {
			log.Printf("migrate_documents: failed to mark proposal %s converted: %v\n", proposal.Id, err)
			continue
		}
		log.Printf("migrate_documents: proposal %q -> converted (invoice %s)\n",
			proposal.GetString("proposal_number"), inv.GetString("invoice_number"))
	}
	return nil
}
