package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/app"
)

func (c *cli) articlesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles <room-id>",
		Short: "List articles of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				articles, err := client.Content.ArticlesByRoom(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, a := range articles {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s [%s]\n", a.ID, a.Title, a.DifficultyLevel)
				}
				return nil
			})
		},
	}
	cmd.AddCommand(c.showArticleCommand(), c.createArticleCommand())
	return cmd
}

func (c *cli) showArticleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <article-id>",
		Short: "Print an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid article id %q", args[0])
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				a, err := client.Content.Article(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\n\n%s\n", a.Title, a.DifficultyLevel, a.Content)
				return nil
			})
		},
	}
}

func (c *cli) createArticleCommand() *cobra.Command {
	var (
		article    api.Article
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an article in a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			article.DifficultyLevel = api.DifficultyLevel(strings.ToUpper(difficulty))
			switch article.DifficultyLevel {
			case api.DifficultyBeginner, api.DifficultyIntermediate, api.DifficultyAdvanced:
			default:
				return fmt.Errorf("invalid difficulty %q", difficulty)
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				article.UserID = client.Session.User().ID
				created, err := client.Content.CreateArticle(cmd.Context(), article)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published article #%d %s\n", created.ID, created.Title)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&article.RoomID, "room", 0, "room id")
	cmd.Flags().StringVar(&article.Title, "title", "", "article title")
	cmd.Flags().StringVar(&article.Content, "content", "", "article body")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(api.DifficultyBeginner), "BEGINNER, INTERMEDIATE or ADVANCED")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func (c *cli) postsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts <room-id>",
		Short: "List discussions of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				posts, err := client.Content.PostsByRoom(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, p := range posts {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s %s\n", p.ID, p.PostType, p.Title)
				}
				return nil
			})
		},
	}
	cmd.AddCommand(c.createPostCommand())
	return cmd
}

func (c *cli) createPostCommand() *cobra.Command {
	var (
		post     api.Post
		postType string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a discussion in a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			post.PostType = api.PostType(strings.ToUpper(postType))
			switch post.PostType {
			case api.PostTypeQuestion, api.PostTypeDiscussion, api.PostTypeAnnouncement:
			default:
				return fmt.Errorf("invalid post type %q", postType)
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				post.UserID = client.Session.User().ID
				created, err := client.Content.CreatePost(cmd.Context(), post)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "posted #%d %s\n", created.ID, created.PostType)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&post.RoomID, "room", 0, "room id")
	cmd.Flags().StringVar(&post.Title, "title", "", "post title")
	cmd.Flags().StringVar(&post.Content, "content", "", "post body")
	cmd.Flags().StringVar(&postType, "type", string(api.PostTypeDiscussion), "QUESTION, DISCUSSION or ANNOUNCEMENT")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func postArg(args []string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", args[0])
	}
	return id, nil
}

func (c *cli) commentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List replies to a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postArg(args)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				comments, err := client.Content.CommentsByPost(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, cm := range comments {
					accepted := ""
					if cm.IsAccepted {
						accepted = " (accepted)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s%s\n", cm.ID, cm.AuthorName, cm.Content, accepted)
				}
				return nil
			})
		},
	}
	cmd.AddCommand(c.addCommentCommand())
	return cmd
}

func (c *cli) addCommentCommand() *cobra.Command {
	var content string
	cmd := &cobra.Command{
		Use:   "add <post-id>",
		Short: "Reply to a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postArg(args)
			if err != nil {
				return err
			}
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				created, err := client.Content.CreateComment(cmd.Context(), api.Comment{
					PostID:  id,
					UserID:  client.Session.User().ID,
					Content: content,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "replied #%d\n", created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "reply text")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func (c *cli) wikiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wiki <room-id>",
		Short: "List wiki pages of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roomArg(args)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(client *app.Client) error {
				entries, err := client.Content.WikiByRoom(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s (updated %s)\n", e.ID, e.Title, e.UpdatedAt)
				}
				return nil
			})
		},
	}
}

func (c *cli) usersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List community members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.requireSession(cmd.Context(), func(client *app.Client) error {
				users, err := client.Users.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.DisplayName(), u.Email)
				}
				return w.Flush()
			})
		},
	}
}
