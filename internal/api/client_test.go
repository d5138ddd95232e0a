package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/auth"
	"github.com/Rorical/RoriQuery/internal/models"
)

type tokenStore struct {
	mu     sync.Mutex
	token  string
	role   int
	clears int
}

func (s *tokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *tokenStore) RoleID() int { return s.role }

func (s *tokenStore) SetToken(t string, r int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.role = t, r
	return nil
}

func (s *tokenStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.clears++
	return nil
}

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(p string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, p)
}

func newTestClient(t *testing.T, h http.Handler, token string) (*Client, *tokenStore, *navRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := &tokenStore{token: token}
	rec := &navRecorder{}
	session := auth.NewSession(store, rec, zap.NewNop())
	return NewClient(srv.URL+"/api/v1/", session, WithLogger(zap.NewNop())), store, rec
}

func TestAskSendsBearerAndQuestion(t *testing.T) {
	var got AskRequest
	var authHeader, requestID string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ai/ask", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		authHeader = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"answer":"two students","sql":"SELECT name, marks FROM s","data":[{"name":"a","marks":1},{"name":"b","marks":2}],"follow_ups":["next?"]}`)
	})
	client, _, _ := newTestClient(t, h, "tok")

	resp, err := client.Ask(context.Background(), "who?", false)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", authHeader)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, AskRequest{Question: "who?"}, got)
	assert.Equal(t, "two students", resp.Answer)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, []string{"name", "marks"}, resp.Data[0].Columns())
	assert.Equal(t, []string{"next?"}, resp.FollowUps)
}

func TestAskConfirmedFlag(t *testing.T) {
	var raw map[string]any
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		io.WriteString(w, `{"answer":"done","affected_rows":3}`)
	})
	client, _, _ := newTestClient(t, h, "tok")

	resp, err := client.Ask(context.Background(), "delete it", true)
	require.NoError(t, err)
	assert.Equal(t, true, raw["confirmed"])
	assert.Equal(t, 3, resp.AffectedRows)
}

func TestUnauthorizedClearsTokenAndRedirects(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})
	client, store, rec := newTestClient(t, h, "stale")

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = client.ListConversations(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))

	assert.Equal(t, 1, store.clears)
	assert.Equal(t, []string{"/login"}, rec.paths)
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Incorrect email or password"}`)
	})
	client, store, rec := newTestClient(t, h, "")

	_, err := client.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())
	assert.Equal(t, "Incorrect email or password", LoginErrorText(err))
	assert.Equal(t, 0, store.clears)
	assert.Empty(t, rec.paths)
}

func TestValidationDetailList(t *testing.T) {
	assert.Equal(t, "field required; value is not a valid email",
		parseDetail([]byte(`{"detail":[{"msg":"field required"},{"msg":"value is not a valid email"}]}`)))
	assert.Equal(t, "plain failure", parseDetail([]byte("plain failure\n")))
}

func TestForbiddenIsDistinct(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail":"Not enough permissions"}`)
	})
	client, store, _ := newTestClient(t, h, "tok")

	_, err := client.SuperAdminMetrics(context.Background())
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 0, store.clears)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestConversationCRUD(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/conversations/":
			io.WriteString(w, `[{"id":1,"title":"first","messages":[],"message_count":4,"created_at":"2025-03-01T10:00:00","updated_at":"2025-03-01T11:00:00"}]`)
		case r.Method == http.MethodGet:
			io.WriteString(w, `{"id":1,"title":"first","messages":[{"sender":"user","text":"hi"}]}`)
		case r.Method == http.MethodPost:
			var in ConversationCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Conversation{ID: 9, Title: in.Title, Messages: in.Messages})
		case r.Method == http.MethodPut:
			var in map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			_, hasTitle := in["title"]
			assert.False(t, hasTitle)
			io.WriteString(w, `{"id":9,"title":"t","messages":[]}`)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	client, _, _ := newTestClient(t, h, "tok")
	ctx := context.Background()

	list, err := client.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Summary().Messages)

	conv, err := client.GetConversation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.User, conv.Messages[0].Sender)

	created, err := client.CreateConversation(ctx, ConversationCreate{Title: "hello", Messages: []models.Message{models.UserMessage("hello")}})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "hello", created.Title)

	_, err = client.UpdateConversation(ctx, 9, ConversationUpdate{Messages: []models.Message{models.UserMessage("x")}})
	require.NoError(t, err)

	require.NoError(t, client.DeleteConversation(ctx, 9))

	assert.Equal(t, []string{
		"GET /api/v1/conversations/",
		"GET /api/v1/conversations/1",
		"POST /api/v1/conversations/",
		"PUT /api/v1/conversations/9",
		"DELETE /api/v1/conversations/9",
	}, seen)
}

func TestCancelledRequest(t *testing.T) {
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	client, _, _ := newTestClient(t, h, "tok")
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Ask(ctx, "slow", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLeaderboardOmitsZeroFilters(t *testing.T) {
	var raw map[string]any
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		io.WriteString(w, `[{"rank":1,"student_name":"Asha","is_current_user":true,"avatar_seed":"Asha","metrics":{"score":91.5,"total_marks":120,"questions_attended":40,"accuracy":"87.5%"}}]`)
	})
	client, _, _ := newTestClient(t, h, "tok")

	entries, err := client.Leaderboard(context.Background(), LeaderboardQuery{CourseID: 4, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, "all", raw["category"])
	assert.EqualValues(t, 4, raw["course_id"])
	_, hasCollege := raw["college_id"]
	assert.False(t, hasCollege)
	require.Len(t, entries, 1)
	assert.Equal(t, "87.5%", entries[0].Metrics.Accuracy)
	assert.True(t, entries[0].IsCurrentUser)
}

func TestLeaderboardQueryStrings(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.RequestURI())
		mu.Unlock()
		switch r.URL.Path {
		case "/api/v1/analytics/leaderboard/metadata":
			io.WriteString(w, `{"departments":[{"id":1,"name":"CSE"}],"batches":[],"sections":[]}`)
		default:
			io.WriteString(w, `[]`)
		}
	})
	client, _, _ := newTestClient(t, h, "tok")
	ctx := context.Background()

	_, err := client.LeaderboardCourses(ctx, 0)
	require.NoError(t, err)
	_, err = client.LeaderboardCourses(ctx, 5)
	require.NoError(t, err)
	meta, err := client.LeaderboardMetadata(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "CSE", meta.Departments[0].Name)

	assert.Equal(t, []string{
		"/api/v1/analytics/leaderboard/courses",
		"/api/v1/analytics/leaderboard/courses?college_id=5",
		"/api/v1/analytics/leaderboard/metadata?college_id=5",
	}, paths)
}

func TestRateLimitHonoursContext(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	client := NewClient(srv.URL, nil, WithRateLimit(0.001))
	_, err := client.Me(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Me(ctx)
	assert.Error(t, err)
}

func TestLoginErrorTextFallbacks(t *testing.T) {
	assert.Equal(t, "Login failed. Please check your credentials.", LoginErrorText(&Error{StatusCode: http.StatusBadRequest}))
	assert.Equal(t, "An error occurred. Please try again later.", LoginErrorText(errors.New("dial tcp: refused")))
}
