package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/adapters/graphql"
	"socialclient/internal/client/adapters/graphql/graphqltest"
	"socialclient/internal/client/adapters/store"
	"socialclient/internal/client/app"
	"socialclient/internal/client/config"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/refresh"
)

func newAPI(t *testing.T, handler graphqltest.HandlerFunc) (*app.API, *graphqltest.Backend) {
	t.Helper()

	backend := graphqltest.NewBackend(t, handler)
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), entities.Credentials{AccessToken: "T1", RefreshToken: "R1"}))

	tr := graphql.NewTransport(&config.APIConfig{URL: backend.URL, RequestTimeout: 5 * time.Second}, nil)
	coord := refresh.NewCoordinator("alice", st, graphql.NewAuthClient(tr), refresh.Options{})
	return app.NewAPI(app.NewRequester(tr, st, coord, nil), time.Minute), backend
}

func TestAPITrendingProjectsIsCached(t *testing.T) {
	api, backend := newAPI(t, func(graphqltest.Request) graphqltest.Reply {
		return graphqltest.Data(map[string]any{"trendingProjects": []map[string]any{
			{"id": "p1", "name": "gopher", "stars": 42},
		}})
	})

	for range 3 {
		projects, err := api.TrendingProjects(context.Background(), 5)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, 42, projects[0].Stars)
	}
	assert.Equal(t, 1, backend.Count("TrendingProjects"))

	_, err := api.TrendingProjects(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Count("TrendingProjects"), "limit is part of the cache key")
}

func TestAPIOperationsSendVariables(t *testing.T) {
	api, backend := newAPI(t, func(req graphqltest.Request) graphqltest.Reply {
		switch req.Operation.OperationName {
		case "Posts":
			return graphqltest.Data(map[string]any{"posts": []map[string]any{{"id": "p1", "content": "hi", "likesCount": 3}}})
		case "CreatePost":
			return graphqltest.Data(map[string]any{"createPost": map[string]any{"id": "p2", "content": req.Operation.Variables["content"]}})
		case "SendMessage":
			return graphqltest.Data(map[string]any{"sendMessage": map[string]any{"id": "m1", "content": req.Operation.Variables["content"]}})
		case "UpdateProfile":
			return graphqltest.Data(map[string]any{"updateProfile": map[string]any{"id": "u1", "bio": "gopher"}})
		case "SendFriendRequest":
			return graphqltest.Data(map[string]any{"sendFriendRequest": true})
		case "DeletePost":
			return graphqltest.Data(map[string]any{"deletePost": true})
		default:
			return graphqltest.Data(map[string]any{})
		}
	})
	ctx := context.Background()

	posts, err := api.Posts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 3, posts[0].Likes)

	post, err := api.CreatePost(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Content)

	msg, err := api.SendMessage(ctx, "u2", "ping")
	require.NoError(t, err)
	assert.Equal(t, "ping", msg.Content)

	bio := "gopher"
	user, err := api.UpdateProfile(ctx, entities.ProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gopher", user.Bio)

	sent, err := api.SendFriendRequest(ctx, "u3")
	require.NoError(t, err)
	assert.True(t, sent)

	deleted, err := api.DeletePost(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, deleted)

	byName := map[string]graphqltest.Request{}
	for _, r := range backend.Requests() {
		byName[r.Operation.OperationName] = r
		assert.Equal(t, "T1", r.Bearer)
	}

	assert.EqualValues(t, 20, byName["Posts"].Operation.Variables["limit"], "default page size")
	assert.Equal(t, "u2", byName["SendMessage"].Operation.Variables["receiverId"])
	assert.Equal(t, map[string]any{"bio": "gopher"}, byName["UpdateProfile"].Operation.Variables["input"])
	assert.Equal(t, "u3", byName["SendFriendRequest"].Operation.Variables["userId"])
}
