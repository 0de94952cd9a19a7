package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/adapters/graphql/graphqltest"
	"socialclient/internal/client/domain/apierr"
)

func fakeAPI(req graphqltest.Request) graphqltest.Reply {
	switch req.Operation.OperationName {
	case "Login":
		return graphqltest.Data(map[string]any{"login": map[string]any{
			"token":        "T1",
			"refreshToken": "R1",
			"user":         map[string]any{"id": "u1", "username": "alice"},
		}})
	case "Logout":
		return graphqltest.Data(map[string]any{"logout": true})
	}

	if req.Bearer != "T1" {
		return graphqltest.Errors(fiber.StatusOK, apierr.NewGraphQLError(apierr.CodeNotAuthenticated, "Not authenticated"))
	}

	switch req.Operation.OperationName {
	case "Me":
		return graphqltest.Data(map[string]any{"me": map[string]any{"id": "u1", "username": "alice"}})
	case "Posts":
		return graphqltest.Data(map[string]any{"posts": []map[string]any{
			{"id": "p1", "content": "hello world", "author": map[string]any{"id": "u2", "username": "bob"}, "likesCount": 3},
		}})
	}
	return graphqltest.Errors(fiber.StatusOK, apierr.NewGraphQLError(apierr.CodeValidation, "unknown operation"))
}

func setupEnv(t *testing.T) *graphqltest.Backend {
	t.Helper()

	backend := graphqltest.NewBackend(t, fakeAPI)
	t.Setenv("CLIENT_API_URL", backend.URL)
	t.Setenv("CLIENT_STORE_DRIVER", "file")
	t.Setenv("CLIENT_STORE_FILE", filepath.Join(t.TempDir(), "session.yaml"))
	t.Setenv("CLIENT_PROBE_ATTEMPTS", "1")
	return backend
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginWhoamiFeedLogout(t *testing.T) {
	backend := setupEnv(t)

	out, err := run(t, "secret\n", "login", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as @alice")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "u1 (@alice)")

	out, err = run(t, "", "feed", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "hello world")

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")
	assert.Equal(t, 1, backend.Count("Logout"))

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestLoginRequiresPassword(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "login", "--email", "alice@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingInput)
}

func TestCommandArguments(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "send", "u2")
	require.Error(t, err)

	_, err = run(t, "", "like")
	require.Error(t, err)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\tc "))
	long := strings.Repeat("x", 100)
	assert.Equal(t, maxCellWidth, len([]rune(oneLine(long))))
}
