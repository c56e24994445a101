package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocweb/membership-api/config"
	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/internal/domain/entity"
	"github.com/ngocweb/membership-api/internal/domain/repository"
	"github.com/ngocweb/membership-api/pkg/helpers"
	"github.com/ngocweb/membership-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

// memStore is a single in-memory backend implementing every repository the
// handlers need, so the tests run the real services end to end over HTTP.
type memStore struct {
	users       map[string]*entity.User // by normalized email
	sessions    map[string]*entity.Session
	attachments map[string]*entity.Attachment
	posts       map[string]*entity.Post
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*entity.User{},
		sessions:    map[string]*entity.Session{},
		attachments: map[string]*entity.Attachment{},
		posts:       map[string]*entity.Post{},
	}
}

func (s *memStore) CreatePending(_ context.Context, u *entity.User) error {
	if _, ok := s.users[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	s.users[u.Email] = u
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ActivateByToken(_ context.Context, token string, now time.Time) (*entity.User, error) {
	for _, u := range s.users {
		if u.Status == entity.StatusPending && u.VerificationToken != nil && *u.VerificationToken == token {
			if u.VerificationTokenExpiresAt == nil || u.VerificationTokenExpiresAt.Before(now) {
				return nil, repository.ErrTokenExpired
			}
			u.Status = entity.StatusActive
			u.VerificationToken = nil
			u.VerificationTokenExpiresAt = nil
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) Create(_ context.Context, sess *entity.Session) error {
	s.sessions[sess.Token] = sess
	return nil
}

func (s *memStore) ResolveUser(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	sess, ok := s.sessions[token]
	if !ok || !sess.Valid(now) {
		return nil, repository.ErrNotFound
	}
	return s.GetByID(ctx, sess.UserID)
}

func (s *memStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *memStore) GetServable(_ context.Context, id string) (*entity.Attachment, error) {
	a, ok := s.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p, ok := s.posts[a.PostID]; !ok || !p.Published {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (s *memStore) GetPublishedPost(_ context.Context, id string) (*entity.Post, []entity.Attachment, error) {
	p, ok := s.posts[id]
	if !ok || !p.Published {
		return nil, nil, repository.ErrNotFound
	}
	var atts []entity.Attachment
	for _, a := range s.attachments {
		if a.PostID == id {
			atts = append(atts, *a)
		}
	}
	return p, atts, nil
}

// AdminRepository over the same store; guards run without real row locks,
// which is fine for handler-level tests.
func (s *memStore) Begin(context.Context) (repository.AdminTx, error) {
	return &memAdminTx{store: s}, nil
}

type memAdminTx struct{ store *memStore }

func (t *memAdminTx) CallerBySession(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return t.store.ResolveUser(ctx, token, now)
}

func (t *memAdminTx) TargetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return t.store.GetByEmail(ctx, email)
}

func (t *memAdminTx) AdminCount(context.Context) (int, error) {
	n := 0
	for _, u := range t.store.users {
		if u.IsAdmin() {
			n++
		}
	}
	return n, nil
}

func (t *memAdminTx) UpdateRole(ctx context.Context, userID, role string) error {
	u, err := t.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (t *memAdminTx) RefreshSession(_ context.Context, token string, expiresAt time.Time) error {
	if sess, ok := t.store.sessions[token]; ok {
		sess.ExpiresAt = expiresAt
	}
	return nil
}

func (t *memAdminTx) Commit(context.Context) error   { return nil }
func (t *memAdminTx) Rollback(context.Context) error { return nil }

type memSigner struct{}

func (memSigner) SignedDownloadURL(bucket, object string, _ time.Duration, disposition, _ string) (string, error) {
	return "https://signed.example.com/" + bucket + "/" + object + "?disposition=" + disposition, nil
}

func (s *memStore) addActiveUser(t *testing.T, email, password, role string) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         "Member",
		Email:        email,
		Phone:        "090",
		PasswordHash: hash,
		Role:         role,
		Status:       entity.StatusActive,
	}
	s.users[email] = u
	return u
}

func (s *memStore) addSession(u *entity.User) string {
	token := "sess-" + u.ID
	s.sessions[token] = &entity.Session{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return token
}

func newTestRouter(store *memStore) *gin.Engine {
	cfg := &config.Config{
		VerifyEmailURL:      "http://localhost:8080/api/verify-email",
		VerifiedRedirectURL: "/register-success.html",
		SessionTTL:          168 * time.Hour,
		VerifyTokenTTL:      time.Hour,
		SignedURLTTL:        5 * time.Minute,
	}
	cookies := helpers.NewCookieManager("", false)

	auth := &application.AuthService{
		Users:          store,
		Sessions:       store,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		VerifyEmailURL: cfg.VerifyEmailURL,
		SessionTTL:     cfg.SessionTTL,
	}
	admin := &application.AdminService{
		Admin:      store,
		Sessions:   store,
		SessionTTL: cfg.SessionTTL,
	}
	content := &application.ContentService{
		Attachments:  store,
		Sessions:     store,
		Signer:       memSigner{},
		Bucket:       "member-files",
		SignedURLTTL: cfg.SignedURLTTL,
	}

	r := gin.New()
	api := r.Group("/api")
	ah := NewAuthHandler(auth, nil, cfg)
	uh := NewUserHandler(auth, nil, cookies, false)
	adh := NewAdminHandler(admin, nil, cookies, false)
	ath := NewAttachmentHandler(content, nil, false)
	api.POST("/register", ah.Register)
	api.GET("/verify-email", ah.VerifyEmail)
	api.POST("/login", uh.Login)
	api.POST("/logout", uh.Logout)
	api.GET("/me", uh.Me)
	api.PATCH("/admin/users/role", adh.ChangeRole)
	api.GET("/attachments/:id/download", ath.Download)
	api.GET("/posts/:id", ath.GetPost)
	return r
}

func doJSON(r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	// No password-length rule: any non-empty password registers.
	body := `{"name":"A","email":"a@x.com","phone":"1","password":"pw"}`
	w := doJSON(r, http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])

	u, ok := store.users["a@x.com"]
	require.True(t, ok)
	assert.Equal(t, entity.StatusPending, u.Status)

	// Same email again conflicts with the fixed Japanese message.
	w = doJSON(r, http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusConflict, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, "このメールアドレスは既に登録されています", resp["message"])

	// Logging in before verification is forbidden, not unauthorized.
	w = doJSON(r, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A missing field still fails binding.
	w = doJSON(r, http.MethodPost, "/api/register",
		`{"name":"a","email":"b@x.com","phone":"1"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Uppercase input lands under the normalized email.
	w = doJSON(r, http.MethodPost, "/api/register",
		`{"name":"山田","email":"Yamada@Example.com","phone":"090","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	_, ok = store.users["yamada@example.com"]
	assert.True(t, ok)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	doJSON(r, http.MethodPost, "/api/register",
		`{"name":"a","email":"a@x.com","phone":"1","password":"password1"}`, "")
	token := *store.users["a@x.com"].VerificationToken

	w := doJSON(r, http.MethodGet, "/api/verify-email?token="+token, "", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register-success.html", w.Header().Get("Location"))
	assert.Equal(t, entity.StatusActive, store.users["a@x.com"].Status)

	// The token is single-use; replaying it is a plain-text 400.
	w = doJSON(r, http.MethodGet, "/api/verify-email?token="+token, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "無効または期限切れのリンクです")
}

func TestLoginEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	store.addActiveUser(t, "a@x.com", "password1", entity.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	var sessCookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == helpers.SessionCookieName {
			sessCookie = c
		}
	}
	require.NotNil(t, sessCookie)
	assert.Len(t, sessCookie.Value, 64)
	assert.True(t, sessCookie.HttpOnly)
	assert.Equal(t, "/", sessCookie.Path)

	// Wrong password, unknown account, and malformed address all answer
	// the identical 401, so none of the three is distinguishable.
	wrong := doJSON(r, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"nope12345"}`, "")
	unknown := doJSON(r, http.MethodPost, "/api/login", `{"email":"ghost@x.com","password":"nope12345"}`, "")
	malformed := doJSON(r, http.MethodPost, "/api/login", `{"email":"not-an-email","password":"nope12345"}`, "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, malformed.Code)
	assert.Equal(t, decodeBody(t, wrong)["message"], decodeBody(t, unknown)["message"])
	assert.Equal(t, decodeBody(t, wrong)["message"], decodeBody(t, malformed)["message"])
}

func TestMeEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	u := store.addActiveUser(t, "a@x.com", "password1", entity.RoleUser)
	token := store.addSession(u)

	w := doJSON(r, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "a@x.com", data["email"])
}

func TestLogoutEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	u := store.addActiveUser(t, "a@x.com", "password1", entity.RoleUser)
	token := store.addSession(u)

	w := doJSON(r, http.MethodPost, "/api/logout", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, store.sessions, token)

	w = doJSON(r, http.MethodGet, "/api/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangeRoleEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	admin := store.addActiveUser(t, "admin@x.com", "password1", entity.RoleAdmin)
	member := store.addActiveUser(t, "member@x.com", "password1", entity.RoleUser)
	token := store.addSession(admin)

	body := `{"email":"member@x.com","role":"admin"}`

	// No cookie at all: 401 before the body is even read.
	w := doJSON(r, http.MethodPatch, "/api/admin/users/role", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A dead session is rejected and its cookie cleared.
	w = doJSON(r, http.MethodPatch, "/api/admin/users/role", body, "stale-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	// Bad role value fails binding.
	w = doJSON(r, http.MethodPatch, "/api/admin/users/role",
		`{"email":"member@x.com","role":"owner"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/admin/users/role", body, token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, entity.RoleAdmin, member.Role)
}

func TestDownloadEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	u := store.addActiveUser(t, "a@x.com", "password1", entity.RoleUser)
	token := store.addSession(u)

	post := &entity.Post{ID: uuid.NewString(), Title: "T", Published: true}
	att := &entity.Attachment{
		ID:              uuid.NewString(),
		PostID:          post.ID,
		Filename:        "report.pdf",
		StorageProvider: entity.StorageProviderGCS,
		StorageKey:      "posts/report.pdf",
		ContentType:     "application/pdf",
	}
	store.posts[post.ID] = post
	store.attachments[att.ID] = att

	w := doJSON(r, http.MethodGet, "/api/attachments/"+att.ID+"/download", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/attachments/"+att.ID+"/download", "", token)
	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "posts/report.pdf")
	assert.Contains(t, loc, "disposition=inline")

	w = doJSON(r, http.MethodGet, "/api/attachments/"+att.ID+"/download?dl=1", "", token)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "disposition=attachment")

	w = doJSON(r, http.MethodGet, "/api/attachments/not-a-uuid/download", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id", decodeBody(t, w)["message"])
}

func TestGetPostEndpoint(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	post := &entity.Post{ID: uuid.NewString(), Title: "公開記事", Content: "本文", Published: true}
	store.posts[post.ID] = post
	attID := uuid.NewString()
	store.attachments[attID] = &entity.Attachment{
		ID: attID, PostID: post.ID, Filename: "a.pdf",
		StorageProvider: entity.StorageProviderGCS, StorageKey: "k/a.pdf",
	}

	w := doJSON(r, http.MethodGet, "/api/posts/"+post.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "公開記事", data["title"])

	draft := &entity.Post{ID: uuid.NewString(), Published: false}
	store.posts[draft.ID] = draft
	w = doJSON(r, http.MethodGet, "/api/posts/"+draft.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
