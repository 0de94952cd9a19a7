package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"socialclient/internal/client/domain/entities"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printUser(w io.Writer, user *entities.User) {
	fmt.Fprintf(w, "%s (@%s)\n", user.ID, user.Username)
	if user.Email != "" {
		fmt.Fprintf(w, "email:     %s\n", user.Email)
	}
	if user.Bio != "" {
		fmt.Fprintf(w, "bio:       %s\n", user.Bio)
	}
	if user.Location != "" {
		fmt.Fprintf(w, "location:  %s\n", user.Location)
	}
	fmt.Fprintf(w, "followers: %d  following: %d\n", user.Followers, user.Following)
}

func printPosts(w io.Writer, posts []entities.Post) error {
	tw := newTable(w, "ID", "AUTHOR", "LIKES", "CONTENT")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t@%s\t%d\t%s\n", p.ID, p.Author.Username, p.Likes, oneLine(p.Content))
	}
	return tw.Flush()
}

func printConversations(w io.Writer, conversations []entities.Conversation) error {
	tw := newTable(w, "ID", "WITH", "UNREAD", "LAST MESSAGE")
	for _, c := range conversations {
		names := make([]string, 0, len(c.Participants))
		for _, p := range c.Participants {
			names = append(names, "@"+p.Username)
		}
		last := ""
		if c.LastMessage != nil {
			last = oneLine(c.LastMessage.Content)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, strings.Join(names, ","), c.UnreadCount, last)
	}
	return tw.Flush()
}

func printMessages(w io.Writer, messages []entities.Message) error {
	tw := newTable(w, "TIME", "FROM", "MESSAGE")
	for _, m := range messages {
		fmt.Fprintf(tw, "%s\t@%s\t%s\n", m.CreatedAt, m.Sender.Username, oneLine(m.Content))
	}
	return tw.Flush()
}

func printSuggestions(w io.Writer, suggestions []entities.FriendSuggestion) error {
	tw := newTable(w, "ID", "USER", "MUTUAL")
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%s\t@%s\t%d\n", s.User.ID, s.User.Username, s.MutualFriends)
	}
	return tw.Flush()
}

func printProjects(w io.Writer, projects []entities.Project) error {
	tw := newTable(w, "NAME", "STARS", "OWNER", "DESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%d\t@%s\t%s\n", p.Name, p.Stars, p.Owner.Username, oneLine(p.Description))
	}
	return tw.Flush()
}

const maxCellWidth = 60

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxCellWidth {
		return string(r[:maxCellWidth-1]) + "…"
	}
	return s
}
