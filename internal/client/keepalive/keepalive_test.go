package keepalive_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/adapters/store"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/keepalive"
	"socialclient/internal/client/ports/services"
)

type refresherMock struct {
	mock.Mock
}

func (m *refresherMock) Refresh(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type verifierMock struct {
	mock.Mock
}

func (m *verifierMock) Verify(ctx context.Context, prober services.Prober) (bool, error) {
	args := m.Called(ctx, prober)
	return args.Bool(0), args.Error(1)
}

type nopProber struct{}

func (nopProber) Me(context.Context) (*entities.User, error) { return &entities.User{ID: "u1"}, nil }

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func setup(t *testing.T, creds entities.Credentials) (*keepalive.Keepalive, *refresherMock, *verifierMock) {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), creds))

	r := &refresherMock{}
	v := &verifierMock{}
	k := keepalive.New(st, r, v, nopProber{}, time.Minute)
	return k, r, v
}

func TestTickRefreshesExpiringToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	k, r, v := setup(t, entities.Credentials{
		AccessToken:  tokenExpiringAt(t, now.Add(30*time.Second)),
		RefreshToken: "R1",
	})
	k.SetClock(func() time.Time { return now })
	r.On("Refresh", mock.Anything).Return("T2", nil).Once()

	require.NoError(t, k.Tick(context.Background()))
	r.AssertExpectations(t)
	v.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestTickVerifiesFreshToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	k, r, v := setup(t, entities.Credentials{
		AccessToken:  tokenExpiringAt(t, now.Add(time.Hour)),
		RefreshToken: "R1",
	})
	k.SetClock(func() time.Time { return now })
	v.On("Verify", mock.Anything, mock.Anything).Return(true, nil).Once()

	require.NoError(t, k.Tick(context.Background()))
	v.AssertExpectations(t)
	r.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestTickOpaqueTokenIsVerified(t *testing.T) {
	k, r, v := setup(t, entities.Credentials{AccessToken: "opaque", RefreshToken: "R1"})
	v.On("Verify", mock.Anything, mock.Anything).Return(true, nil).Once()

	require.NoError(t, k.Tick(context.Background()))
	r.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestTickWithoutSessionDoesNothing(t *testing.T) {
	k, r, v := setup(t, entities.Credentials{})

	require.NoError(t, k.Tick(context.Background()))
	r.AssertNotCalled(t, "Refresh", mock.Anything)
	v.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestStartRunsScheduledTicks(t *testing.T) {
	k, _, v := setup(t, entities.Credentials{AccessToken: "opaque"})
	ticked := make(chan struct{}, 1)
	v.On("Verify", mock.Anything, mock.Anything).Return(true, nil).Run(func(mock.Arguments) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	require.NoError(t, k.Start(context.Background(), "@every 1s"))
	require.NoError(t, k.Start(context.Background(), "@every 1s"), "second start is a no-op")

	select {
	case <-ticked:
	case <-time.After(3 * time.Second):
		t.Fatal("keepalive did not tick")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, k.Stop(stopCtx))
	assert.NoError(t, k.Stop(stopCtx), "stop is idempotent")
}

func TestStartInvalidSpec(t *testing.T) {
	k, _, _ := setup(t, entities.Credentials{})
	assert.Error(t, k.Start(context.Background(), "not a cron spec"))
}
