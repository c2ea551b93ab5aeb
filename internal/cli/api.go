package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/excelvision/excelvision/internal/models"
)

// APIClient calls the Excel Vision backend over HTTP.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// checkResp reads the response body and returns an error if the status is
// not 2xx, including the upstream body for debugging.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(body))
}

// Signup calls POST /auth/signup.
func (c *APIClient) Signup(name, email, password string) error {
	body, _ := json.Marshal(models.SignupRequest{Name: name, Email: email, Password: password})
	resp, err := c.post("/auth/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkResp(resp, "/auth/signup")
}

// Login calls POST /auth/login and returns the token and display name.
func (c *APIClient) Login(email, password string) (token, name string, err error) {
	body, _ := json.Marshal(models.LoginRequest{Email: email, Password: password})
	resp, err := c.post("/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/auth/login"); err != nil {
		return "", "", err
	}

	var result models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("/auth/login: decode: %w", err)
	}
	return result.Token, result.Name, nil
}

// Upload posts a workbook as multipart form data and returns the parsed rows.
func (c *APIClient) Upload(filename string, content []byte) ([]models.Row, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	resp, err := c.post("/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/upload"); err != nil {
		return nil, err
	}

	var result struct {
		Data []models.Row `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("/upload: decode: %w", err)
	}
	return result.Data, nil
}

// History calls GET /upload/history.
func (c *APIClient) History() ([]models.UploadRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/upload/history", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("/upload/history: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "/upload/history"); err != nil {
		return nil, err
	}

	var recs []models.UploadRecord
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		return nil, fmt.Errorf("/upload/history: decode: %w", err)
	}
	return recs, nil
}

func (c *APIClient) post(path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resp, nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
