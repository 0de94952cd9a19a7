package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/kofalt/go-memoize"

	"socialclient/internal/client/domain/entities"
	"socialclient/internal/client/ports/services"
)

// ErrUnexpectedCacheValue - в кэше трендов оказалось значение другого типа.
var ErrUnexpectedCacheValue = errors.New("unexpected trending cache value")

const (
	defaultPageSize    = 20
	defaultTrendingTTL = 5 * time.Minute
)

// API - типизированные операции социальной сети поверх Requester.
type API struct {
	requester *Requester
	trending  *memoize.Memoizer
}

var _ services.Prober = (*API)(nil)

// NewAPI создает API. trendingTTL задает время жизни кэша трендов.
func NewAPI(requester *Requester, trendingTTL time.Duration) *API {
	if trendingTTL <= 0 {
		trendingTTL = defaultTrendingTTL
	}
	return &API{
		requester: requester,
		trending:  memoize.NewMemoizer(trendingTTL, 2*trendingTTL),
	}
}

// Me возвращает текущего пользователя.
func (a *API) Me(ctx context.Context) (*entities.User, error) {
	var out struct {
		Me *entities.User `json:"me"`
	}
	if err := a.requester.Query(ctx, entities.Operation{Query: meQuery, OperationName: "Me"}, &out); err != nil {
		return nil, err
	}
	return out.Me, nil
}

// Posts возвращает страницу ленты.
func (a *API) Posts(ctx context.Context, limit, offset int) ([]entities.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var out struct {
		Posts []entities.Post `json:"posts"`
	}
	op := entities.Operation{
		Query:         postsQuery,
		OperationName: "Posts",
		Variables:     map[string]any{"limit": limit, "offset": offset},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// CreatePost публикует запись.
func (a *API) CreatePost(ctx context.Context, content string) (*entities.Post, error) {
	var out struct {
		CreatePost *entities.Post `json:"createPost"`
	}
	op := entities.Operation{
		Query:         createPostMutation,
		OperationName: "CreatePost",
		Variables:     map[string]any{"content": content},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.CreatePost, nil
}

// LikePost ставит отметку "нравится".
func (a *API) LikePost(ctx context.Context, id string) (*entities.Post, error) {
	var out struct {
		LikePost *entities.Post `json:"likePost"`
	}
	op := entities.Operation{
		Query:         likePostMutation,
		OperationName: "LikePost",
		Variables:     map[string]any{"id": id},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.LikePost, nil
}

// DeletePost удаляет запись.
func (a *API) DeletePost(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeletePost bool `json:"deletePost"`
	}
	op := entities.Operation{
		Query:         deletePostMutation,
		OperationName: "DeletePost",
		Variables:     map[string]any{"id": id},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return false, err
	}
	return out.DeletePost, nil
}

// Conversations возвращает диалоги пользователя.
func (a *API) Conversations(ctx context.Context) ([]entities.Conversation, error) {
	var out struct {
		Conversations []entities.Conversation `json:"conversations"`
	}
	op := entities.Operation{Query: conversationsQuery, OperationName: "Conversations"}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// Messages возвращает последние сообщения диалога.
func (a *API) Messages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var out struct {
		Messages []entities.Message `json:"messages"`
	}
	op := entities.Operation{
		Query:         messagesQuery,
		OperationName: "Messages",
		Variables:     map[string]any{"conversationId": conversationID, "limit": limit},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// SendMessage отправляет сообщение пользователю.
func (a *API) SendMessage(ctx context.Context, receiverID, content string) (*entities.Message, error) {
	var out struct {
		SendMessage *entities.Message `json:"sendMessage"`
	}
	op := entities.Operation{
		Query:         sendMessageMutation,
		OperationName: "SendMessage",
		Variables:     map[string]any{"receiverId": receiverID, "content": content},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.SendMessage, nil
}

// User возвращает профиль пользователя.
func (a *API) User(ctx context.Context, id string) (*entities.User, error) {
	var out struct {
		User *entities.User `json:"user"`
	}
	op := entities.Operation{
		Query:         userQuery,
		OperationName: "User",
		Variables:     map[string]any{"id": id},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile изменяет заданные поля профиля.
func (a *API) UpdateProfile(ctx context.Context, input entities.ProfileInput) (*entities.User, error) {
	var out struct {
		UpdateProfile *entities.User `json:"updateProfile"`
	}
	op := entities.Operation{
		Query:         updateProfileMutation,
		OperationName: "UpdateProfile",
		Variables:     map[string]any{"input": input},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.UpdateProfile, nil
}

// FriendSuggestions возвращает рекомендации в друзья.
func (a *API) FriendSuggestions(ctx context.Context, limit int) ([]entities.FriendSuggestion, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var out struct {
		FriendSuggestions []entities.FriendSuggestion `json:"friendSuggestions"`
	}
	op := entities.Operation{
		Query:         friendSuggestionsQuery,
		OperationName: "FriendSuggestions",
		Variables:     map[string]any{"limit": limit},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return nil, err
	}
	return out.FriendSuggestions, nil
}

// SendFriendRequest отправляет заявку в друзья.
func (a *API) SendFriendRequest(ctx context.Context, userID string) (bool, error) {
	var out struct {
		SendFriendRequest bool `json:"sendFriendRequest"`
	}
	op := entities.Operation{
		Query:         sendFriendRequestMutation,
		OperationName: "SendFriendRequest",
		Variables:     map[string]any{"userId": userID},
	}
	if err := a.requester.Query(ctx, op, &out); err != nil {
		return false, err
	}
	return out.SendFriendRequest, nil
}

// TrendingProjects возвращает трендовые проекты. Успешные ответы кэшируются,
// ошибки не кэшируются.
func (a *API) TrendingProjects(ctx context.Context, limit int) ([]entities.Project, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	value, err, _ := a.trending.Memoize("trending:"+strconv.Itoa(limit), func() (interface{}, error) {
		var out struct {
			TrendingProjects []entities.Project `json:"trendingProjects"`
		}
		op := entities.Operation{
			Query:         trendingProjectsQuery,
			OperationName: "TrendingProjects",
			Variables:     map[string]any{"limit": limit},
		}
		if err := a.requester.Query(ctx, op, &out); err != nil {
			return nil, err
		}
		return out.TrendingProjects, nil
	})
	if err != nil {
		return nil, err
	}

	projects, ok := value.([]entities.Project)
	if !ok {
		return nil, ErrUnexpectedCacheValue
	}
	return projects, nil
}
