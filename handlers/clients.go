package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"agencydesk/services"
)

var clientFields = []string{"name", "company", "email", "phone", "gstin", "address", "status", "notes"}

// ClientJSON is the response shape of a client record.
type ClientJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

func clientJSON(rec *core.Record) ClientJSON {
	return ClientJSON{
		ID:      rec.Id,
		Name:    rec.GetString("name"),
		Company: rec.GetString("company"),
		Email:   rec.GetString("email"),
		Phone:   rec.GetString("phone"),
		GSTIN:   rec.GetString("gstin"),
		Address: rec.GetString("address"),
		Status:  rec.GetString("status"),
		Notes:   rec.GetString("notes"),
	}
}

// HandleClientList handles GET /api/clients.
func HandleClientList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records := []*core.Record{}
		if err := app.RecordQuery("clients").OrderBy("name ASC").All(&records); err != nil {
			log.Printf("clients: list failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items := make([]ClientJSON, 0, len(records))
		for _, rec := range records {
			items = append(items, clientJSON(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

// HandleClientGet handles GET /api/clients/{id}.
func HandleClientGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Client not found")
		}
		return e.JSON(http.StatusOK, clientJSON(rec))
	}
}

// HandleClientCreate handles POST /api/clients.
func HandleClientCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		body := map[string]string{}
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		normalizeClient(body)
		if body["status"] == "" {
			body["status"] = "active"
		}

		if errs := services.ValidateClient(body); len(errs) > 0 {
			return fieldErrors(e, errs)
		}

		col, err := app.FindCollectionByNameOrId("clients")
		if err != nil {
			log.Printf("clients: collection not found: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		for _, f := range clientFields {
			rec.Set(f, body[f])
		}
		if err := app.Save(rec); err != nil {
			log.Printf("clients: save failed: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, clientJSON(rec))
	}
}

// HandleClientUpdate handles POST /api/clients/{id}. Only submitted fields
// change; the merged record is validated as a whole.
func HandleClientUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Client not found")
		}

		body := map[string]string{}
		if err := e.BindBody(&body); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		normalizeClient(body)

		merged := make(map[string]string, len(clientFields))
		for _, f := range clientFields {
			merged[f] = rec.GetString(f)
			if v, ok := body[f]; ok {
				merged[f] = v
			}
		}

		if errs := services.ValidateClient(merged); len(errs) > 0 {
			return fieldErrors(e, errs)
		}

		for _, f := range clientFields {
			rec.Set(f, merged[f])
		}
		if err := app.Save(rec); err != nil {
			log.Printf("clients: update %s failed: %v", rec.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, clientJSON(rec))
	}
}

// HandleClientDelete handles DELETE /api/clients/{id}. Clients referenced by
// invoices or proposals cannot be deleted.
func HandleClientDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("clients", e.Request.PathValue("id"))
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Client not found")
		}

		for _, coll := range []string{"invoices", "proposals"} {
			refs, err := app.FindRecordsByFilter(coll, "client = {:id}", "", 1, 0, map[string]any{"id": rec.Id})
			if err == nil && len(refs) > 0 {
				return jsonError(e, http.StatusConflict, "Client has "+coll+" and cannot be deleted")
			}
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("clients: delete %s failed: %v", rec.Id, err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

func normalizeClient(body map[string]string) {
	for k, v := range body {
		body[k] = strings.TrimSpace(v)
	}
	if v, ok := body["gstin"]; ok {
		body["gstin"] = strings.ToUpper(v)
	}
}
