package chart

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingCounter struct {
	counts map[string]int
}

func (c *countingCounter) Incr(name string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[name]++
}

func TestRenderHandlerPNG(t *testing.T) {
	counter := &countingCounter{}
	h := NewHandler(counter)

	body, _ := json.Marshal(RenderRequest{
		Rows: sampleRows(),
		X:    "Month", Y: "Sales", Kind: "Bar",
	})
	req := httptest.NewRequest("POST", "/chart/render", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Render(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
	require.Equal(t, 1, counter.counts["charts_generated"])
}

func TestRenderHandlerPDF(t *testing.T) {
	h := NewHandler(&countingCounter{})

	body, _ := json.Marshal(RenderRequest{
		Rows: sampleRows(),
		X:    "Month", Y: "Sales", Kind: "Line", Format: "pdf",
	})
	req := httptest.NewRequest("POST", "/chart/render", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Render(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestRenderHandlerUnknownKind(t *testing.T) {
	h := NewHandler(&countingCounter{})

	req := httptest.NewRequest("POST", "/chart/render",
		strings.NewReader(`{"rows":[],"x":"a","y":"b","kind":"Donut"}`))
	rec := httptest.NewRecorder()
	h.Render(rec, req)

	require.Equal(t, 400, rec.Code)
}

func TestRenderHandlerMissingAxes(t *testing.T) {
	h := NewHandler(&countingCounter{})

	req := httptest.NewRequest("POST", "/chart/render",
		strings.NewReader(`{"rows":[],"x":"","y":"b","kind":"Bar"}`))
	rec := httptest.NewRecorder()
	h.Render(rec, req)

	require.Equal(t, 400, rec.Code)
}

func TestScene3DHandler(t *testing.T) {
	counter := &countingCounter{}
	h := NewHandler(counter)

	body, _ := json.Marshal(SceneRequest{Rows: sampleRows(), X: "Month", Y: "Sales"})
	req := httptest.NewRequest("POST", "/chart/3d", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Scene3D(rec, req)

	require.Equal(t, 200, rec.Code)
	var scene Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scene))
	require.Len(t, scene.Bars, 3)
	require.Equal(t, "Jan", scene.Bars[0].Label)
	require.Equal(t, 1, counter.counts["charts_generated"])
}
