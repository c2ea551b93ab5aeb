package chart

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/excelvision/excelvision/internal/models"
)

// Counter records usage events. Backed by Redis in production; tests use a
// no-op.
type Counter interface {
	Incr(name string)
}

// RenderRequest is the JSON body for POST /chart/render.
type RenderRequest struct {
	Rows   []models.Row `json:"rows"`
	X      string       `json:"x"`
	Y      string       `json:"y"`
	Kind   string       `json:"kind"`
	Format string       `json:"format"` // "png" (default) or "pdf"
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// SceneRequest is the JSON body for POST /chart/3d.
type SceneRequest struct {
	Rows []models.Row `json:"rows"`
	X    string       `json:"x"`
	Y    string       `json:"y"`
}

// Handler holds chart HTTP handlers.
type Handler struct {
	counter Counter
}

func NewHandler(counter Counter) *Handler {
	return &Handler{counter: counter}
}

// Render builds a dataset from posted rows and returns the rendered chart
// as PNG or a single-page landscape PDF.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	kind, err := ParseKind(req.Kind)
	if err != nil {
		http.Error(w, `{"error":"unknown chart kind"}`, http.StatusBadRequest)
		return
	}

	ds, err := Build(req.Rows, req.X, req.Y, kind)
	if err != nil {
		http.Error(w, `{"error":"both x and y columns must be selected"}`, http.StatusBadRequest)
		return
	}

	png, err := Render(ds, req.Width, req.Height)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			http.Error(w, `{"error":"nothing to draw for the selected columns"}`, http.StatusBadRequest)
			return
		}
		log.Printf("chart render error: %v", err)
		http.Error(w, `{"error":"chart rendering failed"}`, http.StatusInternalServerError)
		return
	}

	switch req.Format {
	case "", "png":
		h.counter.Incr("charts_generated")
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename=chart.png`)
		w.Write(png)
	case "pdf":
		pdf, err := ExportPDF(png)
		if err != nil {
			log.Printf("pdf export error: %v", err)
			http.Error(w, `{"error":"pdf export failed"}`, http.StatusInternalServerError)
			return
		}
		h.counter.Incr("reports_exported")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename=chart.pdf`)
		w.Write(pdf)
	default:
		http.Error(w, `{"error":"format must be png or pdf"}`, http.StatusBadRequest)
	}
}

// Scene3D returns the 3D bar layout for posted rows.
func (h *Handler) Scene3D(w http.ResponseWriter, r *http.Request) {
	var req SceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.X == "" || req.Y == "" {
		http.Error(w, `{"error":"both x and y columns must be selected"}`, http.StatusBadRequest)
		return
	}

	h.counter.Incr("charts_generated")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Build3D(req.Rows, req.X, req.Y))
}
