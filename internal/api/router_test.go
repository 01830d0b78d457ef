package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohits-web03/piiquante/internal/api/handlers"
	"github.com/rohits-web03/piiquante/internal/api/services"
	"github.com/rohits-web03/piiquante/internal/auth"
	"github.com/rohits-web03/piiquante/internal/rate"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/sauces"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	repo    *repositories.MemorySauceRepository
	dir     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	dir := t.TempDir()

	blobs, err := repositories.NewDiskBlobStore(dir, "http://localhost:3000/images")
	require.NoError(t, err)

	sauceRepo := repositories.NewMemorySauceRepository()
	users := services.NewUserService(
		repositories.NewMemoryUserRepository(),
		auth.NewTokenService("test-secret", time.Hour),
		auth.NewPasswordHasher(bcrypt.MinCost),
		log,
	)
	sauceSvc := services.NewSauceService(sauceRepo, blobs, log, 5)

	handler := SetupRouter(RouterConfig{
		Auth:           handlers.NewAuthHandler(users, nil, log, false),
		Sauces:         handlers.NewSauceHandler(sauceSvc, log),
		Authn:          users,
		Limiter:        rate.NewMemory(),
		Log:            log,
		Cors:           cors.Options{AllowedOrigins: []string{"http://localhost:4200"}},
		LoginPerMinute: 100,
		VotePerMinute:  100,
		ImagesDir:      dir,
	})
	return &testServer{t: t, handler: handler, repo: sauceRepo, dir: dir}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) jsonRequest(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

// register signs up and logs in, returning the user id and token.
func (s *testServer) register(email string) (string, string) {
	rec := s.jsonRequest(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.jsonRequest(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var session services.Session
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &session))
	return session.UserID, session.Token
}

func sauceForm(t *testing.T, sauce map[string]any, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	raw, err := json.Marshal(sauce)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("sauce", string(raw)))

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *testServer) createSauce(token string) string {
	body, ct := sauceForm(s.t, map[string]any{
		"name": "Sriracha", "manufacturer": "Huy Fong", "description": "Hot",
		"mainPepper": "Jalapeno", "heat": 4,
		"userId": "ffffffffffffffffffffffff", "likes": 99,
	}, "sriracha.png")
	req := httptest.NewRequest(http.MethodPost, "/api/sauces", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(req)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	list := s.list(token)
	require.NotEmpty(s.t, list)
	return list[0]["_id"].(string)
}

func (s *testServer) list(token string) []map[string]any {
	req := httptest.NewRequest(http.MethodGet, "/api/sauces", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(req)
	require.Equal(s.t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSaucesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/sauces", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupDuplicateAndBadLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("a@example.com")

	rec := s.jsonRequest(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "a@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.jsonRequest(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestCreateAndGetSauce(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.register("a@example.com")
	id := s.createSauce(token)

	req := httptest.NewRequest(http.MethodGet, "/api/sauces/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got["_id"])
	assert.Equal(t, userID, got["userId"], "owner comes from the session, not the body")
	assert.EqualValues(t, 0, got["likes"])
	assert.EqualValues(t, 0, got["dislikes"])
	assert.Equal(t, []any{}, got["usersLiked"])
	assert.Equal(t, []any{}, got["usersDisliked"])
	assert.NotContains(t, got, "version")

	imageURL := got["imageUrl"].(string)
	require.True(t, strings.HasPrefix(imageURL, "http://localhost:3000/images/sriracha."))
	name := strings.TrimPrefix(imageURL, "http://localhost:3000/images/")
	_, err := os.Stat(filepath.Join(s.dir, name))
	assert.NoError(t, err)

	img := s.do(httptest.NewRequest(http.MethodGet, "/images/"+name, nil))
	assert.Equal(t, http.StatusOK, img.Code)
}

func TestGetSauceErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("a@example.com")

	tests := []struct {
		path   string
		status int
	}{
		{"/api/sauces/not-an-id", http.StatusBadRequest},
		{"/api/sauces/ABCDEFABCDEFABCDEFABCDEF", http.StatusBadRequest},
		{"/api/sauces/" + sauces.NewID(), http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, tt.status, s.do(req).Code, tt.path)
	}
}

func TestUpdateAndDeleteOwnerOnly(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.register("owner@example.com")
	_, otherToken := s.register("other@example.com")
	id := s.createSauce(ownerToken)

	update := map[string]any{"name": "Tabasco", "manufacturer": "McIlhenny", "description": "Vinegar", "mainPepper": "Tabasco", "heat": 5}

	rec := s.jsonRequest(http.MethodPut, "/api/sauces/"+id, otherToken, update)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/sauces/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)

	rec = s.jsonRequest(http.MethodPut, "/api/sauces/"+id, ownerToken, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Tabasco", s.list(ownerToken)[0]["name"])

	req = httptest.NewRequest(http.MethodDelete, "/api/sauces/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, s.do(req).Code)
	assert.Empty(t, s.list(ownerToken))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "image is removed with the sauce")
}

func TestJSONUpdateTrimsFields(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("owner@example.com")
	id := s.createSauce(token)

	update := map[string]any{"name": "  Tabasco  ", "manufacturer": " McIlhenny", "description": "Vinegar\n", "mainPepper": "\tTabasco", "heat": 5}
	rec := s.jsonRequest(http.MethodPut, "/api/sauces/"+id, token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := s.list(token)[0]
	assert.Equal(t, "Tabasco", got["name"])
	assert.Equal(t, "McIlhenny", got["manufacturer"])
	assert.Equal(t, "Vinegar", got["description"])
	assert.Equal(t, "Tabasco", got["mainPepper"])
}

func TestUpdateWithNewImage(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("owner@example.com")
	id := s.createSauce(token)
	before := s.list(token)[0]["imageUrl"].(string)

	body, ct := sauceForm(t, map[string]any{
		"name": "Sriracha", "manufacturer": "Huy Fong", "description": "Hotter",
		"mainPepper": "Jalapeno", "heat": 6,
	}, "new.png")
	req := httptest.NewRequest(http.MethodPut, "/api/sauces/"+id, body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	after := s.list(token)[0]
	assert.NotEqual(t, before, after["imageUrl"])
	assert.EqualValues(t, 6, after["heat"])

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "new."))
}

func TestLikeFlow(t *testing.T) {
	s := newTestServer(t)
	ownerID, ownerToken := s.register("owner@example.com")
	voterID, voterToken := s.register("voter@example.com")
	id := s.createSauce(ownerToken)
	path := "/api/sauces/" + id + "/like"

	rec := s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID, "like": 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID, "like": 1})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID, "like": -1})
	assert.Equal(t, http.StatusOK, rec.Code)

	got := s.list(voterToken)[0]
	assert.EqualValues(t, 0, got["likes"])
	assert.EqualValues(t, 1, got["dislikes"])
	assert.Equal(t, []any{voterID}, got["usersDisliked"])

	// spoofing someone else's vote
	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": ownerID, "like": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID, "like": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.jsonRequest(http.MethodPost, "/api/sauces/xyz/like", voterToken, map[string]any{"userId": voterID, "like": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.jsonRequest(http.MethodPost, "/api/sauces/"+sauces.NewID()+"/like", voterToken, map[string]any{"userId": voterID, "like": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.jsonRequest(http.MethodPost, path, voterToken, map[string]any{"userId": voterID, "like": 0})
	assert.Equal(t, http.StatusOK, rec.Code)
	got = s.list(voterToken)[0]
	assert.EqualValues(t, 0, got["dislikes"])
	assert.Equal(t, []any{}, got["usersDisliked"])
}

func TestCorruptedVoteStateIs500(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.register("u@example.com")
	id := s.createSauce(token)

	stored, err := s.repo.Get(t.Context(), id)
	require.NoError(t, err)
	stored.UsersLiked = append(stored.UsersLiked, userID)
	stored.UsersDisliked = append(stored.UsersDisliked, userID)
	require.NoError(t, s.repo.Delete(t.Context(), id))
	require.NoError(t, s.repo.Create(t.Context(), stored))

	rec := s.jsonRequest(http.MethodPost, "/api/sauces/"+id+"/like", token, map[string]any{"userId": userID, "like": 1})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "inconsistent")
}

func TestGoogleDisabled(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
