package app

const (
	userFields    = `id username email avatar bio location followersCount followingCount`
	authorFields  = `id username avatar`
	postFields    = `id content image likesCount commentsCount likedByMe createdAt author { ` + authorFields + ` }`
	messageFields = `id conversationId content createdAt read sender { ` + authorFields + ` }`
)

const (
	meQuery = `query Me { me { ` + userFields + ` } }`

	postsQuery = `query Posts($limit: Int!, $offset: Int!) {
  posts(limit: $limit, offset: $offset) { ` + postFields + ` }
}`
	createPostMutation = `mutation CreatePost($content: String!) {
  createPost(content: $content) { ` + postFields + ` }
}`
	likePostMutation = `mutation LikePost($id: ID!) {
  likePost(id: $id) { ` + postFields + ` }
}`
	deletePostMutation = `mutation DeletePost($id: ID!) { deletePost(id: $id) }`

	conversationsQuery = `query Conversations {
  conversations { id unreadCount participants { ` + authorFields + ` } lastMessage { ` + messageFields + ` } }
}`
	messagesQuery = `query Messages($conversationId: ID!, $limit: Int!) {
  messages(conversationId: $conversationId, limit: $limit) { ` + messageFields + ` }
}`
	sendMessageMutation = `mutation SendMessage($receiverId: ID!, $content: String!) {
  sendMessage(receiverId: $receiverId, content: $content) { ` + messageFields + ` }
}`

	userQuery = `query User($id: ID!) { user(id: $id) { ` + userFields + ` } }`

	updateProfileMutation = `mutation UpdateProfile($input: ProfileInput!) {
  updateProfile(input: $input) { ` + userFields + ` }
}`

	friendSuggestionsQuery = `query FriendSuggestions($limit: Int!) {
  friendSuggestions(limit: $limit) { mutualFriends user { ` + authorFields + ` } }
}`
	sendFriendRequestMutation = `mutation SendFriendRequest($userId: ID!) { sendFriendRequest(userId: $userId) }`

	trendingProjectsQuery = `query TrendingProjects($limit: Int!) {
  trendingProjects(limit: $limit) { id name description url stars tags owner { ` + authorFields + ` } }
}`
)
