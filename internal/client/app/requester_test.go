package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialclient/internal/client/adapters/store"
	"socialclient/internal/client/app"
	"socialclient/internal/client/domain/apierr"
	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/refresh"
)

type transportMock struct {
	mock.Mock
}

func (m *transportMock) Do(ctx context.Context, op entities.Operation, bearer string) (*entities.Response, error) {
	args := m.Called(ctx, op, bearer)
	resp, _ := args.Get(0).(*entities.Response)
	return resp, args.Error(1)
}

type handlerMock struct {
	mock.Mock
}

func (m *handlerMock) HandleAuthFailure(ctx context.Context, failure error, usedToken string) (refresh.Outcome, error) {
	args := m.Called(ctx, failure, usedToken)
	return args.Get(0).(refresh.Outcome), args.Error(1)
}

var op = entities.Operation{Query: "query Me { me { id } }", OperationName: "Me"}

func errorResponse(code apierr.Code, message string) *entities.Response {
	return &entities.Response{StatusCode: 200, Errors: []apierr.GraphQLError{*apierr.NewGraphQLError(code, message)}}
}

func okResponse() *entities.Response {
	return &entities.Response{StatusCode: 200, Data: []byte(`{"me":{"id":"u1"}}`)}
}

func newRequester(t *testing.T, creds entities.Credentials) (*app.Requester, *transportMock, *handlerMock) {
	t.Helper()

	st := store.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), creds))

	tr := &transportMock{}
	h := &handlerMock{}
	return app.NewRequester(tr, st, h, nil), tr, h
}

func TestRequesterExecute_Success(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	tr.On("Do", mock.Anything, op, "T1").Return(okResponse(), nil).Once()

	resp, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Empty(t, resp.Errors)
	h.AssertNotCalled(t, "HandleAuthFailure", mock.Anything, mock.Anything, mock.Anything)
	tr.AssertExpectations(t)
}

func TestRequesterExecute_NoTokenSendsNoBearer(t *testing.T) {
	r, tr, _ := newRequester(t, entities.Credentials{})
	tr.On("Do", mock.Anything, op, "").Return(okResponse(), nil).Once()

	_, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestRequesterExecute_TransportErrorPropagated(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	transportErr := errors.Join(apierr.ErrTransport, errors.New("connection reset"))
	tr.On("Do", mock.Anything, op, "T1").Return(nil, transportErr).Once()

	resp, err := r.Execute(context.Background(), op)
	assert.Nil(t, resp)
	assert.Same(t, transportErr, err)
	tr.AssertNumberOfCalls(t, "Do", 1)
	h.AssertNotCalled(t, "HandleAuthFailure", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequesterExecute_NonAuthErrorPassedThrough(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	original := errorResponse(apierr.CodeValidation, "field not found")
	tr.On("Do", mock.Anything, op, "T1").Return(original, nil).Once()
	h.On("HandleAuthFailure", mock.Anything, mock.Anything, "T1").
		Return(refresh.Outcome{}, errors.New("field not found")).Once()

	resp, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Same(t, original, resp)
	tr.AssertNumberOfCalls(t, "Do", 1)
}

func TestRequesterExecute_RetriesOnceWithNewToken(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	tr.On("Do", mock.Anything, op, "T1").Return(errorResponse(apierr.CodeNotAuthenticated, "expired"), nil).Once()
	tr.On("Do", mock.Anything, op, "T2").Return(okResponse(), nil).Once()
	h.On("HandleAuthFailure", mock.Anything, mock.MatchedBy(func(err error) bool {
		return errors.Is(err, apierr.ErrNotAuthenticated)
	}), "T1").Return(refresh.Outcome{Retry: true, AccessToken: "T2"}, nil).Once()

	resp, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Empty(t, resp.Errors)
	tr.AssertExpectations(t)
	h.AssertExpectations(t)
}

func TestRequesterExecute_NeverRetriesTwice(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	second := errorResponse(apierr.CodeNotAuthenticated, "still expired")
	tr.On("Do", mock.Anything, op, "T1").Return(errorResponse(apierr.CodeNotAuthenticated, "expired"), nil).Once()
	tr.On("Do", mock.Anything, op, "T2").Return(second, nil).Once()
	h.On("HandleAuthFailure", mock.Anything, mock.Anything, "T1").
		Return(refresh.Outcome{Retry: true, AccessToken: "T2"}, nil).Once()

	resp, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Same(t, second, resp, "retried response returned whatever it contains")
	tr.AssertNumberOfCalls(t, "Do", 2)
	h.AssertNumberOfCalls(t, "HandleAuthFailure", 1)
}

func TestRequesterExecute_RefreshFailureReturnsOriginalResponse(t *testing.T) {
	r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1", RefreshToken: "R1"})
	original := errorResponse(apierr.CodeNotAuthenticated, "expired")
	tr.On("Do", mock.Anything, op, "T1").Return(original, nil).Once()
	h.On("HandleAuthFailure", mock.Anything, mock.Anything, "T1").
		Return(refresh.Outcome{}, apierr.ErrRefreshFailed).Once()

	resp, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Same(t, original, resp)
	tr.AssertNumberOfCalls(t, "Do", 1)
}

func TestRequesterQuery(t *testing.T) {
	t.Run("decodes data", func(t *testing.T) {
		r, tr, _ := newRequester(t, entities.Credentials{AccessToken: "T1"})
		tr.On("Do", mock.Anything, op, "T1").Return(okResponse(), nil).Once()

		var out struct {
			Me entities.User `json:"me"`
		}
		require.NoError(t, r.Query(context.Background(), op, &out))
		assert.Equal(t, "u1", out.Me.ID)
	})

	t.Run("returns graphql errors", func(t *testing.T) {
		r, tr, h := newRequester(t, entities.Credentials{AccessToken: "T1"})
		tr.On("Do", mock.Anything, op, "T1").Return(errorResponse(apierr.CodeForbidden, "nope"), nil).Once()
		h.On("HandleAuthFailure", mock.Anything, mock.Anything, "T1").Return(refresh.Outcome{}, errors.New("nope")).Once()

		err := r.Query(context.Background(), op, nil)
		var respErr *apierr.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, apierr.CodeForbidden, respErr.Errors[0].Code())
	})

	t.Run("invalid data", func(t *testing.T) {
		r, tr, _ := newRequester(t, entities.Credentials{AccessToken: "T1"})
		tr.On("Do", mock.Anything, op, "T1").Return(&entities.Response{Data: []byte(`{"me":"oops"}`)}, nil).Once()

		var out struct {
			Me entities.User `json:"me"`
		}
		assert.ErrorIs(t, r.Query(context.Background(), op, &out), apierr.ErrInvalidResponse)
	})
}
