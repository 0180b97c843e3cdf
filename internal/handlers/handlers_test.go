package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"candle-backend/internal/media"
	"candle-backend/internal/repository/memory"
	"candle-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMedia struct {
	uploads map[string][]byte
}

func (m *memoryMedia) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	m.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (m *memoryMedia) PresignUpload(context.Context, string, string) (*media.PresignedUpload, error) {
	return nil, media.ErrPresignUnsupported
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	svc     *services.Services
	media   *memoryMedia
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := &memoryMedia{uploads: map[string][]byte{}}
	svc := services.New(services.Deps{
		Repos:     memory.New(),
		Media:     store,
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	})
	return &testAPI{
		t:       t,
		handler: NewRouter(svc, RouterConfig{AuthRateLimit: 1000}),
		svc:     svc,
		media:   store,
	}
}

func (a *testAPI) request(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID          string  `json:"id"`
		Email       string  `json:"email"`
		PartnerID   *string `json:"partner_id"`
		PartnerName *string `json:"partner_name"`
	} `json:"user"`
}

func (a *testAPI) register(email, name string) tokenBody {
	a.t.Helper()
	rec := a.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "name": name,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[tokenBody](a.t, rec)
}

// couple registers and pairs two users, returning their tokens
func (a *testAPI) couple() (string, string) {
	a.t.Helper()
	alex := a.register("alex@example.com", "Alex")
	sam := a.register("sam@example.com", "Sam")

	rec := a.request(http.MethodPost, "/api/pairing/generate", alex.AccessToken, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	code := decodeBody[map[string]any](a.t, rec)["code"].(string)

	rec = a.request(http.MethodPost, "/api/pairing/connect", sam.AccessToken, map[string]string{"code": code})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return alex.AccessToken, sam.AccessToken
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorResponse](t, rec).Error
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(http.MethodGet, "/api/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Candle API is running", decodeBody[map[string]string](t, rec)["message"])

	rec = api.request(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "secret123", "name": "Alex",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email must be a valid email address", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alex@example.com", "password": "123", "name": "Alex",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be at least 6 characters", errorMessage(t, rec))

	alex := api.register("alex@example.com", "Alex")
	assert.Equal(t, "bearer", alex.TokenType)
	assert.Nil(t, alex.User.PartnerID)

	rec = api.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alex@example.com", "password": "secret123", "name": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alex@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alex@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[tokenBody](t, rec).AccessToken

	rec = api.request(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = api.request(http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.request(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[map[string]any](t, rec)
	assert.Equal(t, alex.User.ID, me["id"])
	assert.NotContains(t, me, "password_hash")

	rec = api.request(http.MethodPut, "/api/users/me/push-token", token, map[string]string{"push_token": "device"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "device", decodeBody[map[string]any](t, rec)["push_token"])

	rec = api.request(http.MethodPut, "/api/users/me/web-push", token, map[string]any{"endpoint": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorMessage(t, rec))
}

func TestPairingEndpoints(t *testing.T) {
	api := newTestAPI(t)
	solo := api.register("solo@example.com", "Solo")

	rec := api.request(http.MethodPost, "/api/pairing/connect", solo.AccessToken, map[string]string{"code": "NOPE00"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid pairing code", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/pairing/disconnect", solo.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, samToken := api.couple()
	rec = api.request(http.MethodGet, "/api/auth/me", samToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alex", decodeBody[map[string]any](t, rec)["partner_name"])

	rec = api.request(http.MethodPost, "/api/pairing/disconnect", samToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[map[string]any](t, rec)["partner_id"])
}

func TestQuestionFlow(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	rec := api.request(http.MethodGet, "/api/questions/today", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decodeBody[map[string]any](t, rec)
	id := q["id"].(string)
	assert.NotEmpty(t, q["text"])
	assert.Equal(t, false, q["both_answered"])

	for _, token := range []string{alex, sam} {
		rec = api.request(http.MethodPost, "/api/questions/answer", token, map[string]string{
			"question_id": id, "answer_text": "Always you",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["both_answered"])

	rec = api.request(http.MethodPost, "/api/questions/answer", sam, map[string]string{
		"question_id": id, "answer_text": "twice",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You have already answered this question", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/questions/react", sam, map[string]string{"question_id": id, "reaction": "heart"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[StatusResponse](t, rec).Status)

	rec = api.request(http.MethodGet, "/api/streaks", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody[map[string]any](t, rec)["current_streak"])

	rec = api.request(http.MethodGet, "/api/questions/history", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)
}

func TestRequiresPartner(t *testing.T) {
	api := newTestAPI(t)
	solo := api.register("solo@example.com", "Solo")

	for _, path := range []string{"/api/questions/today", "/api/notes", "/api/trivia/scores", "/api/fantasy/matches"} {
		rec := api.request(http.MethodGet, path, solo.AccessToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "You need to pair with a partner first", errorMessage(t, rec), path)
	}

	// no partner needed
	rec := api.request(http.MethodGet, "/api/streaks", solo.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.request(http.MethodPost, "/api/mood", solo.AccessToken, map[string]string{"mood": "happy"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTriviaSetAnswerAcceptsQueryParams(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	var round map[string]any
	var subject, guesser string
	// rounds are about a random partner; retry until one is about alex
	for range 50 {
		rec := api.request(http.MethodGet, "/api/trivia/question", alex, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		round = decodeBody[map[string]any](t, rec)
		if round["about_user"] == "Alex" {
			subject, guesser = alex, sam
			break
		}
	}
	require.NotEmpty(t, subject, "no round about Alex")

	id := round["id"].(string)
	option := round["options"].([]any)[2].(string)
	rec := api.request(http.MethodPost, "/api/trivia/set-answer?trivia_id="+id+"&answer=nonsense", subject, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/trivia/set-answer", nil)
	q := req.URL.Query()
	q.Set("trivia_id", id)
	q.Set("answer", option)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+subject)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.request(http.MethodPost, "/api/trivia/guess", guesser, map[string]string{"trivia_id": id, "selected_option": option})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, result["is_correct"])
	assert.EqualValues(t, 10, result["points_earned"])

	rec = api.request(http.MethodGet, "/api/trivia/scores", subject, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, decodeBody[map[string]any](t, rec)["partner_score"])
}

func TestNotesAndCoupons(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	rec := api.request(http.MethodPost, "/api/notes", alex, map[string]string{"message": "Thinking of you"})
	require.Equal(t, http.StatusOK, rec.Code)
	note := decodeBody[map[string]any](t, rec)
	assert.NotContains(t, note, "to_user_id")

	rec = api.request(http.MethodGet, "/api/notes/unread-count", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody[map[string]any](t, rec)["count"])

	rec = api.request(http.MethodPost, "/api/notes/"+note["id"].(string)+"/read", alex, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.request(http.MethodPost, "/api/notes/"+note["id"].(string)+"/read", sam, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(http.MethodPost, "/api/coupons", sam, map[string]string{"title": "One free massage"})
	require.Equal(t, http.StatusOK, rec.Code)
	couponID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.request(http.MethodPost, "/api/coupons/"+couponID+"/redeem", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "redeemed", decodeBody[map[string]any](t, rec)["status"])

	rec = api.request(http.MethodPost, "/api/coupons/"+couponID+"/redeem", alex, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Coupon already redeemed", errorMessage(t, rec))

	rec = api.request(http.MethodGet, "/api/coupons", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lists := decodeBody[map[string][]any](t, rec)
	assert.Len(t, lists["received"], 1)
	assert.Empty(t, lists["sent"])
}

func TestDatesAndBucketList(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	rec := api.request(http.MethodPost, "/api/dates/generate", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	idea := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "romantic", idea["mood"])

	rec = api.request(http.MethodPost, "/api/dates/"+idea["id"].(string)+"/favorite", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"is_favorite": true}, decodeBody[map[string]bool](t, rec))

	rec = api.request(http.MethodPost, "/api/dates/missing/complete", sam, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.request(http.MethodPost, "/api/bucket-list", alex, map[string]string{"title": "See the northern lights", "category": "travel"})
	require.Equal(t, http.StatusOK, rec.Code)
	itemID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.request(http.MethodPost, "/api/bucket-list/"+itemID+"/toggle", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["is_completed"])

	rec = api.request(http.MethodDelete, "/api/bucket-list/"+itemID, sam, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMoodHistoryDays(t *testing.T) {
	api := newTestAPI(t)
	alex, _ := api.couple()

	rec := api.request(http.MethodPost, "/api/mood", alex, map[string]string{"mood": "grumpy"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.request(http.MethodPost, "/api/mood", alex, map[string]string{"mood": "content"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(http.MethodGet, "/api/mood/history?days=abc", alex, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "days must be a number", errorMessage(t, rec))

	rec = api.request(http.MethodGet, "/api/mood/history?days=7", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]any](t, rec), 1)

	rec = api.request(http.MethodGet, "/api/mood/today", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decodeBody[map[string]any](t, rec)
	assert.NotNil(t, today["user_mood"])
	assert.Nil(t, today["partner_mood"])
}

func TestMediaUpload(t *testing.T) {
	api := newTestAPI(t)
	alex, _ := api.couple()

	upload := func(data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+alex)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := upload([]byte("\x89PNG\r\n\x1a\nimage-bytes"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decodeBody[map[string]string](t, rec)["url"], "https://cdn.test/")
	assert.Len(t, api.media.uploads, 1)

	rec = upload([]byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image uploads are allowed", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/media/presign", alex, map[string]string{"filename": "a.png", "content_type": "image/png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.request(http.MethodPost, "/api/media/upload", alex, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", errorMessage(t, rec))
}

func TestPlayfulEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	rec := api.request(http.MethodPost, "/api/thumb-kiss", alex, map[string]float64{"x": 0.4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "y is required", errorMessage(t, rec))

	rec = api.request(http.MethodPost, "/api/thumb-kiss", alex, map[string]float64{"x": 0, "y": 0})
	require.Equal(t, http.StatusOK, rec.Code, "zero is a valid coordinate")

	rec = api.request(http.MethodPost, "/api/thumb-kiss", sam, map[string]float64{"x": 0.05, "y": 0.05})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["kiss"])

	rec = api.request(http.MethodPost, "/api/spicy-dice/roll", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mild", decodeBody[map[string]any](t, rec)["intensity"])

	rec = api.request(http.MethodGet, "/api/spicy-dice/history", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]any](t, rec), 1)

	rec = api.request(http.MethodPost, "/api/canvas", alex, map[string]string{"image_data": "data:image/png;base64,iVBORw0KGgpkYXRh"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	drawingID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.request(http.MethodDelete, "/api/canvas/"+drawingID, sam, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.request(http.MethodDelete, "/api/canvas/"+drawingID, alex, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFantasyEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alex, sam := api.couple()

	rec := api.request(http.MethodGet, "/api/fantasy/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody[[]any](t, rec))

	rec = api.request(http.MethodPut, "/api/fantasy/profile", alex, map[string]any{"answers": map[string]string{"massage": "yes", "bath": "no"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.request(http.MethodPut, "/api/fantasy/profile", sam, map[string]any{"answers": map[string]string{"massage": "maybe", "bath": "yes"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.request(http.MethodPut, "/api/fantasy/profile", sam, map[string]any{"answers": map[string]string{"massage": "sure"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.request(http.MethodGet, "/api/fantasy/matches", alex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	matches := decodeBody[[]map[string]any](t, rec)
	require.Len(t, matches, 1)
	assert.Equal(t, "massage", matches[0]["id"])
	assert.Equal(t, false, matches[0]["both_yes"])
}
