package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gamerhub/internal/models"
	"gamerhub/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	reqID  string
	body   map[string]any
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

// newTestClient starts a server answering every request with handler and
// records what it received.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), reqID: r.Header.Get("X-Request-ID")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.body)
		}
		rec.mu.Lock()
		rec.calls = append(rec.calls, got)
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore())
	return New(srv.URL, sess, WithTimeout(2*time.Second)), sess, rec
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestBearerTokenAttached(t *testing.T) {
	client, sess, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[]`)
	})
	ctx := context.Background()

	_, err := client.ListPosts(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Establish(ctx, "abc.def", models.User{ID: 1, Email: "a@b.co"}))
	_, err = client.ListPosts(ctx)
	require.NoError(t, err)

	require.Len(t, calls.all(), 2)
	assert.Empty(t, calls.all()[0].auth)
	assert.Equal(t, "Bearer abc.def", calls.all()[1].auth)
	assert.NotEmpty(t, calls.all()[1].reqID)
}

func TestListPostsNormalizes(t *testing.T) {
	client, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[
			{"id": 1, "content": "no author", "createdAt": "2024-03-01 10:00:00", "gameType": "VALORANT", "commentCount": 2},
			{"id": 2, "content": "ranked", "createdAt": "2024-03-02T09:30:00", "gameType": "VALORANT",
			 "user": {"id": 5, "name": "Sage", "email": "sage@example.com"},
			 "gameRanking": {"id": 12, "gameType": "VALORANT", "rankingName": "Gold 2", "rankingScore": 12},
			 "recentComments": [{"id": 9, "content": "nice", "createdAt": "2024-03-02T10:00:00Z", "postId": 2}]},
			{"id": 3, "content": "legacy", "createdAt": null}
		]`)
	})

	posts, err := client.ListPostsByGame(context.Background(), models.GameValorant)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "/api/posts/game/VALORANT", calls.all()[0].path)

	assert.Equal(t, models.UnknownUser(), posts[0].User)
	assert.Nil(t, posts[0].GameRanking)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), posts[0].CreatedAt)
	assert.Equal(t, 2, posts[0].CommentCount)

	assert.Equal(t, "Sage", posts[1].User.Name)
	require.NotNil(t, posts[1].GameRanking)
	assert.Equal(t, uint(12), posts[1].RankingID())
	require.Len(t, posts[1].RecentComments, 1)
	assert.Equal(t, models.UnknownUser(), posts[1].RecentComments[0].User)

	assert.Equal(t, models.GameGeneral, posts[2].GameType)
	assert.True(t, posts[2].CreatedAt.IsZero())
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	client, sess, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, `{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`)
	})
	ctx := context.Background()
	require.NoError(t, sess.Establish(ctx, "stale", models.User{ID: 1}))

	_, err := client.ListUserPosts(ctx)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, 401, StatusOf(err))
	assert.False(t, sess.Authenticated())
}

func TestStaleUnauthorizedKeepsNewSession(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	client, sess, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		writeJSON(w, 401, `{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`)
	})
	ctx := context.Background()
	require.NoError(t, sess.Establish(ctx, "old-token", models.User{ID: 1}))

	done := make(chan error, 1)
	go func() {
		_, err := client.ListUserPosts(ctx)
		done <- err
	}()
	<-arrived
	require.NoError(t, sess.Establish(ctx, "new-token", models.User{ID: 1}))
	close(release)

	err := <-done
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, "Bearer old-token", calls.all()[0].auth)
	assert.Equal(t, "new-token", sess.Token())
}

func TestTimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 42 * time.Second}
	client := New("http://localhost", nil, WithHTTPClient(shared), WithTimeout(time.Second))
	assert.Same(t, shared, client.http)
	assert.Equal(t, 42*time.Second, shared.Timeout)

	client = New("http://localhost", nil, WithTimeout(3*time.Second))
	assert.Equal(t, 3*time.Second, client.http.Timeout)

	client = New("http://localhost", nil)
	assert.Equal(t, defaultTimeout, client.http.Timeout)
}

func TestHTTPErrorCarriesStatusAndMessage(t *testing.T) {
	client, sess, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 403, `{"error":"Not authorized to delete this post","code":"UNAUTHORIZED"}`)
	})
	ctx := context.Background()
	require.NoError(t, sess.Establish(ctx, "tok", models.User{ID: 1}))

	err := client.DeletePost(ctx, 4)
	require.Error(t, err)
	assert.False(t, IsAuth(err))
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Status)
	assert.Equal(t, "Not authorized to delete this post", httpErr.Message)
	assert.True(t, sess.Authenticated())
}

func TestPlainTextErrorBody(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, "Already following.")
	})
	err := client.FollowUser(context.Background(), 3)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Already following.", httpErr.Message)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, nil, WithTimeout(time.Second))
	_, err := client.ListPosts(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusOf(err))
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, 200, `{}`)
	})
	ctx := context.Background()

	_, err := client.CreatePost(ctx, models.CreatePostRequest{Content: "   \n\t"})
	assert.True(t, models.IsValidation(err))
	_, err = client.UpdatePost(ctx, 1, "")
	assert.True(t, models.IsValidation(err))
	_, err = client.CreateComment(ctx, " ", 1)
	assert.True(t, models.IsValidation(err))
	_, err = client.UpdateComment(ctx, 1, "ok", 0)
	assert.True(t, models.IsValidation(err))
	_, err = client.Login(ctx, "not-an-email", "pw")
	assert.True(t, models.IsValidation(err))
	_, err = client.Signup(ctx, "a@b.co", "secret1", "secret2", "Ana")
	assert.True(t, models.IsValidation(err))
	_, err = client.ListPostsByGame(ctx, "MINECRAFT")
	assert.True(t, models.IsValidation(err))

	assert.Equal(t, int32(0), hits.Load())
}

func TestCreatePostBody(t *testing.T) {
	client, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"id": 10, "content": "gg", "gameType": "GENERAL", "createdAt": "2024-01-01T00:00:00Z"}`)
	})
	rankingID := uint(12)

	post, err := client.CreatePost(context.Background(), models.CreatePostRequest{Content: "  gg ", RankingID: &rankingID})
	require.NoError(t, err)
	assert.Equal(t, uint(10), post.ID)

	body := calls.all()[0].body
	assert.Equal(t, "gg", body["content"])
	assert.Equal(t, "GENERAL", body["gameType"])
	_, hasRanking := body["rankingId"]
	assert.False(t, hasRanking)
}

func TestUpdatePostSendsContentOnly(t *testing.T) {
	client, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"id": 3, "content": "edited"}`)
	})
	_, err := client.UpdatePost(context.Background(), 3, "edited")
	require.NoError(t, err)

	got := calls.all()[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/posts/3", got.path)
	assert.Equal(t, map[string]any{"content": "edited"}, got.body)
}

func TestCommentEndpoints(t *testing.T) {
	client, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, `[]`)
		case http.MethodDelete:
			w.WriteHeader(204)
		default:
			writeJSON(w, 200, `{"id": 1, "content": "hi", "postId": 4, "createdAt": "2024-05-05T12:00:00"}`)
		}
	})
	ctx := context.Background()

	comments, err := client.ListComments(ctx, 4)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	c, err := client.CreateComment(ctx, "hi", 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), c.PostID)

	_, err = client.UpdateComment(ctx, 1, "hi again", 4)
	require.NoError(t, err)
	require.NoError(t, client.DeleteComment(ctx, 1))

	paths := []string{}
	for _, r := range calls.all() {
		paths = append(paths, r.method+" "+r.path)
	}
	assert.Equal(t, []string{
		"GET /api/comments/post/4",
		"POST /api/comments",
		"PUT /api/comments/1",
		"DELETE /api/comments/1",
	}, paths)
	assert.Equal(t, float64(4), calls.all()[2].body["postId"])
}

func TestLoginEstablishesSession(t *testing.T) {
	t.Run("flat response", func(t *testing.T) {
		client, sess, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"token":"jwt-1","email":"ana@example.com","name":"Ana","pictureUrl":"http://p/1.png"}`)
		})
		user, err := client.Login(context.Background(), "ana@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, uint(0), user.ID)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "jwt-1", sess.Token())
		stored, ok := sess.User()
		require.True(t, ok)
		assert.True(t, stored.Ref().Equals(models.UserRef{ID: 99, Email: "ana@example.com"}))
	})

	t.Run("embedded user", func(t *testing.T) {
		client, sess, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"token":"jwt-2","email":"bo@example.com","name":"Bo","user":{"id":8,"name":"Bo","email":"bo@example.com","isAdmin":true}}`)
		})
		user, err := client.Signup(context.Background(), "bo@example.com", "secret1", "secret1", "Bo")
		require.NoError(t, err)
		assert.Equal(t, uint(8), user.ID)
		assert.True(t, user.IsAdmin)
		require.NoError(t, client.Logout(context.Background()))
		assert.False(t, sess.Authenticated())
	})

	t.Run("missing token", func(t *testing.T) {
		client, sess, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"email":"x@example.com"}`)
		})
		_, err := client.GoogleLogin(context.Background(), "google-id-token")
		require.Error(t, err)
		assert.False(t, sess.Authenticated())
	})
}

func TestFollowStats(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/follow/3/followers/count":
			writeJSON(w, 200, `{"followers": 5}`)
		case "/api/follow/3/following/count":
			writeJSON(w, 200, `{"following": 2}`)
		default:
			writeJSON(w, 200, `{"isFollowing": true}`)
		}
	})
	stats, err := client.FollowStatsOf(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, FollowStats{Followers: 5, Following: 2}, stats)

	following, err := client.IsFollowing(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestParseTimestamp(t *testing.T) {
	for _, raw := range []string{"2024-03-01T10:00:00Z", "2024-03-01 10:00:00", "2024-03-01T10:00:00", "2024-03-01T10:00:00.123456"} {
		ts, err := parseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2024, ts.Year())
	}
	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}
