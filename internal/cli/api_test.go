package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/excelvision/excelvision/internal/models"
)

func TestLoginDecodesTokenAndName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@example.com", req.Email)

		json.NewEncoder(w).Encode(models.LoginResponse{
			Success: true, Message: "Login successful", Token: "tok123", Name: "Alice",
		})
	}))
	defer srv.Close()

	token, name, err := NewAPIClient(srv.URL, "").Login("a@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok123", token)
	require.Equal(t, "Alice", name)
}

func TestLoginSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, _, err := NewAPIClient(srv.URL, "").Login("a@example.com", "wrong")
	require.ErrorContains(t, err, "401")
	require.ErrorContains(t, err, "Invalid credentials")
}

func TestUploadSendsBearerAndParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "sales.csv", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"message": "File uploaded and parsed successfully",
			"data":    []models.Row{{"A": float64(1)}},
		})
	}))
	defer srv.Close()

	rows, err := NewAPIClient(srv.URL, "tok123").Upload("sales.csv", []byte("A\n1\n"))
	require.NoError(t, err)
	require.Equal(t, []models.Row{{"A": float64(1)}}, rows)
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload/history", r.URL.Path)
		json.NewEncoder(w).Encode([]models.UploadRecord{{Filename: "sales.csv", RowCount: 3}})
	}))
	defer srv.Close()

	recs, err := NewAPIClient(srv.URL, "tok").History()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "sales.csv", recs[0].Filename)
}
