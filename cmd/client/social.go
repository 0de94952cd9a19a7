package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"socialclient/internal/client/bootstrap"
	"socialclient/internal/client/domain/entities"
)

var (
	errProfileFlags = errors.New("profile flags update only your own profile")
	errUserNotFound = errors.New("user not found")
)

func (c *cli) feedCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the latest posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				posts, err := client.API.Posts(ctx, limit, offset)
				if err != nil {
					return err
				}
				return printPosts(cmd.OutOrStdout(), posts)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of posts")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of posts to skip")
	return cmd
}

func (c *cli) postCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <text>",
		Short: "Publish a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				post, err := client.API.CreatePost(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", post.ID)
				return nil
			})
		},
	}
}

func (c *cli) likeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle a like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				post, err := client.API.LikePost(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d likes\n", post.ID, post.Likes)
				return nil
			})
		},
	}
}

func (c *cli) chatCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "chat [conversation-id]",
		Short: "List conversations or show messages of one conversation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				if len(args) == 0 {
					conversations, err := client.API.Conversations(ctx)
					if err != nil {
						return err
					}
					return printConversations(cmd.OutOrStdout(), conversations)
				}

				messages, err := client.API.Messages(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printMessages(cmd.OutOrStdout(), messages)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "number of messages")
	return cmd
}

func (c *cli) sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user-id> <text>",
		Short: "Send a direct message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				msg, err := client.API.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", msg.ID)
				return nil
			})
		},
	}
}

func (c *cli) profileCommand() *cobra.Command {
	var bio, location, avatar, username string

	cmd := &cobra.Command{
		Use:   "profile [user-id]",
		Short: "Show a profile or update your own with flags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				var input entities.ProfileInput
				for name, target := range map[string]**string{
					"bio": &input.Bio, "location": &input.Location, "avatar": &input.Avatar, "username": &input.Username,
				} {
					if cmd.Flags().Changed(name) {
						value, _ := cmd.Flags().GetString(name)
						*target = &value
					}
				}

				var (
					user *entities.User
					err  error
				)
				switch {
				case input != (entities.ProfileInput{}):
					if len(args) > 0 {
						return errProfileFlags
					}
					user, err = client.API.UpdateProfile(ctx, input)
				case len(args) > 0:
					user, err = client.API.User(ctx, args[0])
				default:
					user, err = client.API.Me(ctx)
				}
				if err != nil {
					return err
				}
				if user == nil {
					return errUserNotFound
				}

				printUser(cmd.OutOrStdout(), user)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bio, "bio", "", "new bio")
	cmd.Flags().StringVar(&location, "location", "", "new location")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")
	cmd.Flags().StringVar(&username, "username", "", "new username")
	return cmd
}

func (c *cli) friendsCommand() *cobra.Command {
	var limit int
	var add string

	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Show friend suggestions or send a friend request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				if add != "" {
					sent, err := client.API.SendFriendRequest(ctx, add)
					if err != nil {
						return err
					}
					if !sent {
						return fmt.Errorf("friend request to %s was not accepted by the server", add)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "friend request sent to %s\n", add)
					return nil
				}

				suggestions, err := client.API.FriendSuggestions(ctx, limit)
				if err != nil {
					return err
				}
				return printSuggestions(cmd.OutOrStdout(), suggestions)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of suggestions")
	cmd.Flags().StringVar(&add, "add", "", "user id to send a friend request to")
	return cmd
}

func (c *cli) trendingCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show trending projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(ctx context.Context, client *bootstrap.Client) error {
				projects, err := client.API.TrendingProjects(ctx, limit)
				if err != nil {
					return err
				}
				return printProjects(cmd.OutOrStdout(), projects)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of projects")
	return cmd
}
