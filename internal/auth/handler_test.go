package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/excelvision/excelvision/internal/models"
	"github.com/excelvision/excelvision/internal/store"
)

// fakeUsers is an in-memory UserStore with the same check-then-insert
// semantics as the Mongo store.
type fakeUsers struct {
	byEmail map[string]*models.User
	writes  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, name, email, hashedPw string) (*models.User, error) {
	if _, exists := f.byEmail[email]; exists {
		return nil, store.ErrDuplicateEmail
	}
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashedPw,
		CreatedAt: time.Now(),
	}
	f.byEmail[email] = u
	f.writes++
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func signupBody(name, email, password string) *strings.Reader {
	b, _ := json.Marshal(models.SignupRequest{Name: name, Email: email, Password: password})
	return strings.NewReader(string(b))
}

func TestSignupSucceedsOnce(t *testing.T) {
	users := newFakeUsers()
	h := NewHandler(users, NewTokenIssuer("secret"))

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("Alice", "a@example.com", "pw12345")))
	require.Equal(t, 201, rec.Code)
	require.Contains(t, rec.Body.String(), "User signed up successfully")
	require.Equal(t, 1, users.writes)

	// Stored password is a bcrypt hash, not the plaintext.
	u := users.byEmail["a@example.com"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("pw12345")))
}

func TestSignupDuplicateEmailConflictNoWrite(t *testing.T) {
	users := newFakeUsers()
	h := NewHandler(users, NewTokenIssuer("secret"))

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("Alice", "a@example.com", "pw12345")))
	require.Equal(t, 201, rec.Code)

	rec = httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("Alice2", "a@example.com", "other")))
	require.Equal(t, 400, rec.Code)
	require.Contains(t, rec.Body.String(), "User already exists")
	require.Equal(t, 1, users.writes)
}

func TestSignupMissingFields(t *testing.T) {
	h := NewHandler(newFakeUsers(), NewTokenIssuer("secret"))

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("", "a@example.com", "pw")))
	require.Equal(t, 400, rec.Code)
}

func TestLoginIssuesDecodableToken(t *testing.T) {
	users := newFakeUsers()
	tokens := NewTokenIssuer("secret")
	h := NewHandler(users, tokens)

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("Alice", "a@example.com", "pw12345")))
	require.Equal(t, 201, rec.Code)

	rec = httptest.NewRecorder()
	body, _ := json.Marshal(models.LoginRequest{Email: "a@example.com", Password: "pw12345"})
	h.Login(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(string(body))))
	require.Equal(t, 200, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Login successful", resp.Message)
	require.Equal(t, "Alice", resp.Name)

	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, users.byEmail["a@example.com"].ID.Hex(), userID)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	users := newFakeUsers()
	h := NewHandler(users, NewTokenIssuer("secret"))

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest("POST", "/auth/signup", signupBody("Alice", "a@example.com", "pw12345")))
	require.Equal(t, 201, rec.Code)

	wrongPw := httptest.NewRecorder()
	body, _ := json.Marshal(models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	h.Login(wrongPw, httptest.NewRequest("POST", "/auth/login", strings.NewReader(string(body))))

	unknownEmail := httptest.NewRecorder()
	body, _ = json.Marshal(models.LoginRequest{Email: "nobody@example.com", Password: "pw12345"})
	h.Login(unknownEmail, httptest.NewRequest("POST", "/auth/login", strings.NewReader(string(body))))

	require.Equal(t, 401, wrongPw.Code)
	require.Equal(t, 401, unknownEmail.Code)
	require.Equal(t, wrongPw.Body.String(), unknownEmail.Body.String())
}
