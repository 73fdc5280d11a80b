package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/config"
	"agencydesk/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type lineItemBody struct {
	Description *string      `json:"description"`
	Quantity    *AmountValue `json:"quantity"`
	UnitPrice   *AmountValue `json:"unit_price"`
}

// loadEditableDocument loads a document for a line item change. When the
// snapshot is nil the returned error is the response already written.
func loadEditableDocument(e *core.RequestEvent, app core.App, kind services.DocumentKind) (*services.DocumentSnapshot, error) {
	snap, err := services.LoadDocument(app, kind, e.Request.PathValue("id"))
	if err != nil {
		return nil, loadError(e, kind, "line_items: load "+kind.Name, err)
	}
	if snap.Record.GetString("status") == "converted" {
		return nil, jsonError(e, http.StatusConflict, "Converted proposals cannot be edited")
	}
	return snap, nil
}

// parseLineItem merges body onto base and parses the amounts.
func parseLineItem(base services.LineItem, body *lineItemBody) (services.LineItem, error) {
	li := base
	var err error
	if body.Description != nil {
		li.Description = strings.TrimSpace(*body.Description)
	}
	if body.Quantity != nil {
		if li.Quantity, err = services.ParseAmount("quantity", string(*body.Quantity)); err != nil {
			return li, err
		}
	}
	if body.UnitPrice != nil {
		if li.UnitPrice, err = services.ParseAmount("unit price", string(*body.UnitPrice)); err != nil {
			return li, err
		}
	}
	return li, nil
}

// checkTotals runs the calculator over items so an invalid row is rejected
// before it is written.
func checkTotals(snap *services.DocumentSnapshot, items []services.LineItem) error {
	input := snap.Input
	input.LineItems = items
	_, err := services.ComputeTotals(input)
	return err
}

func respondWithDocument(e *core.RequestEvent, app core.App, cfg *config.Config, kind services.DocumentKind, id string, status int) error {
	snap, err := services.LoadDocument(app, kind, id)
	if err != nil {
		return amountError(e, "line_items: reload "+kind.Name, err)
	}
	return e.JSON(status, documentJSON(app, snap, cfg.DisplayFormatter, true))
}

// HandleLineItemAdd handles POST /api/{kind}s/{id}/line-items.
func HandleLineItemAdd(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, resp := loadEditableDocument(e, app, kind)
		if snap == nil {
			return resp
		}

		var body lineItemBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if trimmed(body.Description) == "" {
			return fieldErrors(e, map[string]string{"description": "Description is required"})
		}
		if body.Quantity == nil {
			one := AmountValue("1")
			body.Quantity = &one
		}

		li, err := parseLineItem(services.LineItem{}, &body)
		if err != nil {
			return amountError(e, "line_items", err)
		}
		if err := checkTotals(snap, append(append([]services.LineItem{}, snap.Input.LineItems...), li)); err != nil {
			return amountError(e, "line_items", err)
		}

		col, err := app.FindCollectionByNameOrId(kind.LineItemCollection)
		if err != nil {
			log.Printf("line_items: HandleLineItemAdd: could not find %s collection: %v", kind.LineItemCollection, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set(kind.RelationField, snap.Record.Id)
		record.Set("sort_order", services.NextSortOrder(app, kind, snap.Record.Id))
		record.Set("description", li.Description)
		record.Set("quantity", li.Quantity.InexactFloat64())
		record.Set("unit_price", li.UnitPrice.InexactFloat64())

		if err := app.Save(record); err != nil {
			log.Printf("line_items: HandleLineItemAdd: could not save line item: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, kind, snap.Record.Id, http.StatusCreated)
	}
}

// HandleLineItemUpdate handles PATCH /api/{kind}s/{id}/line-items/{itemId}.
func HandleLineItemUpdate(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, resp := loadEditableDocument(e, app, kind)
		if snap == nil {
			return resp
		}

		itemID := e.Request.PathValue("itemId")
		idx := -1
		for i, rec := range snap.LineItems {
			if rec.Id == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return jsonError(e, http.StatusNotFound, "Line item not found")
		}

		var body lineItemBody
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if body.Description != nil && strings.TrimSpace(*body.Description) == "" {
			return fieldErrors(e, map[string]string{"description": "Description is required"})
		}

		li, err := parseLineItem(snap.Input.LineItems[idx], &body)
		if err != nil {
			return amountError(e, "line_items", err)
		}
		items := append([]services.LineItem{}, snap.Input.LineItems...)
		items[idx] = li
		if err := checkTotals(snap, items); err != nil {
			return amountError(e, "line_items", err)
		}

		record := snap.LineItems[idx]
		record.Set("description", li.Description)
		record.Set("quantity", li.Quantity.InexactFloat64())
		record.Set("unit_price", li.UnitPrice.InexactFloat64())
		if err := app.Save(record); err != nil {
			log.Printf("line_items: HandleLineItemUpdate: could not save line item %s: %v", itemID, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, kind, snap.Record.Id, http.StatusOK)
	}
}

// HandleLineItemDelete handles DELETE /api/{kind}s/{id}/line-items/{itemId}.
func HandleLineItemDelete(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, resp := loadEditableDocument(e, app, kind)
		if snap == nil {
			return resp
		}

		itemID := e.Request.PathValue("itemId")
		for _, rec := range snap.LineItems {
			if rec.Id != itemID {
				continue
			}
			if err := app.Delete(rec); err != nil {
				log.Printf("line_items: HandleLineItemDelete: could not delete %s: %v", itemID, err)
				return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			return respondWithDocument(e, app, cfg, kind, snap.Record.Id, http.StatusOK)
		}
		return jsonError(e, http.StatusNotFound, "Line item not found")
	}
}

// HandleLineItemImport handles POST /api/{kind}s/{id}/line-items/import with
// a multipart "file" (.csv or .xlsx). Nothing is inserted when any row fails
// validation; with ?report=xlsx the errors come back as a workbook.
func HandleLineItemImport(app *pocketbase.PocketBase, cfg *config.Config, kind services.DocumentKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, resp := loadEditableDocument(e, app, kind)
		if snap == nil {
			return resp
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please choose a .csv or .xlsx file to upload")
		}
		defer file.Close()

		result, err := services.ImportLineItems(file, header.Filename)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		if len(result.Errors) > 0 {
			if e.Request.URL.Query().Get("report") == "xlsx" {
				report, err := services.GenerateErrorReport(result.Errors)
				if err != nil {
					log.Printf("line_items: HandleLineItemImport: error report failed: %v", err)
					return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
				}
				e.Response.Header().Set("Content-Disposition", `attachment; filename="import-errors.xlsx"`)
				return e.Blob(http.StatusUnprocessableEntity, xlsxContentType, report)
			}
			return e.JSON(http.StatusUnprocessableEntity, result)
		}
		if len(result.Items) == 0 {
			return jsonError(e, http.StatusBadRequest, "The file has no line items")
		}

		if err := checkTotals(snap, append(append([]services.LineItem{}, snap.Input.LineItems...), result.Items...)); err != nil {
			return amountError(e, "line_items", err)
		}

		if err := services.SaveImportedLineItems(app, kind, snap.Record.Id, result.Items); err != nil {
			log.Printf("line_items: HandleLineItemImport: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return respondWithDocument(e, app, cfg, kind, snap.Record.Id, http.StatusCreated)
	}
}

// HandleLineItemTemplate handles GET /api/line-items/template.xlsx.
func HandleLineItemTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateLineItemTemplate()
		if err != nil {
			log.Printf("line_items: HandleLineItemTemplate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, "line-items-template.xlsx"))
		return e.Blob(http.StatusOK, xlsxContentType, data)
	}
}
