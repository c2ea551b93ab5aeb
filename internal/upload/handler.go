// Package upload receives spreadsheet files and returns their parsed rows.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/excelvision/excelvision/internal/auth"
	"github.com/excelvision/excelvision/internal/models"
	"github.com/excelvision/excelvision/internal/sheet"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// DatasetStore persists parsed rows as documents.
type DatasetStore interface {
	Insert(ctx context.Context, ds *models.Dataset) (string, error)
}

// WorkbookStore keeps raw workbook bytes.
type WorkbookStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// AuditStore records upload history.
type AuditStore interface {
	Record(ctx context.Context, rec *models.UploadRecord) error
	ListByUser(ctx context.Context, userID string) ([]models.UploadRecord, error)
	FindByFilename(ctx context.Context, userID, filename string) (*models.UploadRecord, error)
}

// Counter records usage events.
type Counter interface {
	Incr(name string)
}

// Handler holds upload HTTP handlers.
type Handler struct {
	datasets  DatasetStore
	workbooks WorkbookStore
	audits    AuditStore
	counter   Counter
	persist   bool
}

func NewHandler(datasets DatasetStore, workbooks WorkbookStore, audits AuditStore, counter Counter, persist bool) *Handler {
	return &Handler{
		datasets:  datasets,
		workbooks: workbooks,
		audits:    audits,
		counter:   counter,
		persist:   persist,
	}
}

// Upload parses the posted workbook and returns its rows. The primary path
// has no persistence step; when persistence is enabled the raw file, the
// parsed rows and an audit record are stored as a side effect, and failures
// there never change the response.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("upload read error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to upload/parse file"})
		return
	}

	rows, err := sheet.Parse(data)
	if err != nil {
		log.Printf("upload parse error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to upload/parse file"})
		return
	}

	h.counter.Incr("files_processed")
	if h.persist {
		h.persistUpload(r.Context(), header.Filename, data, rows)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "File uploaded and parsed successfully",
		"data":    rows,
	})
}

func (h *Handler) persistUpload(ctx context.Context, filename string, data []byte, rows []models.Row) {
	uploader, _ := auth.UserIDFromContext(ctx)
	if uploader == "" {
		uploader = "Anonymous"
	}
	key := fmt.Sprintf("%s/%s-%s", uploader, uuid.New().String(), filename)

	if err := h.workbooks.Put(ctx, key, data, "application/octet-stream"); err != nil {
		log.Printf("workbook store error: %v", err)
		return
	}
	if _, err := h.datasets.Insert(ctx, &models.Dataset{
		UploadedBy: uploader,
		Filename:   filename,
		Rows:       rows,
	}); err != nil {
		log.Printf("dataset insert error: %v", err)
	}
	if err := h.audits.Record(ctx, &models.UploadRecord{
		ID:        uuid.New().String(),
		UserID:    uploader,
		Filename:  filename,
		ObjectKey: key,
		ByteSize:  int64(len(data)),
		RowCount:  len(rows),
	}); err != nil {
		log.Printf("upload record error: %v", err)
	}
}

// View reparses a previously stored workbook by filename.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	uploader, _ := auth.UserIDFromContext(r.Context())
	if uploader == "" {
		uploader = "Anonymous"
	}

	rec, err := h.audits.FindByFilename(r.Context(), uploader, filename)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})
		return
	}

	data, err := h.workbooks.Get(r.Context(), rec.ObjectKey)
	if err != nil {
		log.Printf("workbook fetch error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to read Excel file"})
		return
	}

	rows, err := sheet.Parse(data)
	if err != nil {
		log.Printf("stored workbook parse error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to read Excel file"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

// History lists the caller's uploads, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	uploader, _ := auth.UserIDFromContext(r.Context())
	if uploader == "" {
		uploader = "Anonymous"
	}

	recs, err := h.audits.ListByUser(r.Context(), uploader)
	if err != nil {
		log.Printf("upload history error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	if recs == nil {
		recs = []models.UploadRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}
