package entities

// User - профиль пользователя.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
	Followers int    `json:"followersCount,omitempty"`
	Following int    `json:"followingCount,omitempty"`
}

// ProfileInput - изменяемые поля профиля.
type ProfileInput struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Post - запись ленты.
type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Image     string `json:"image,omitempty"`
	Author    User   `json:"author"`
	Likes     int    `json:"likesCount"`
	Comments  int    `json:"commentsCount"`
	LikedByMe bool   `json:"likedByMe"`
	CreatedAt string `json:"createdAt"`
}

// Conversation - диалог в чате.
type Conversation struct {
	ID           string   `json:"id"`
	Participants []User   `json:"participants"`
	LastMessage  *Message `json:"lastMessage,omitempty"`
	UnreadCount  int      `json:"unreadCount"`
}

// Message - сообщение чата.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Sender         User   `json:"sender"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
	Read           bool   `json:"read"`
}

// FriendSuggestion - рекомендация в друзья.
type FriendSuggestion struct {
	User          User `json:"user"`
	MutualFriends int  `json:"mutualFriends"`
}

// Project - проект из трендов.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url,omitempty"`
	Stars       int      `json:"stars"`
	Tags        []string `json:"tags,omitempty"`
	Owner       User     `json:"owner"`
}
