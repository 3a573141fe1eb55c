package api

import (
	"context"
	"net/http"
	"strconv"
)

// ContentAPI talks to the content service: articles, posts, comments and wiki.
type ContentAPI struct {
	c *Client
}

// NewContentAPI creates a content client.
func NewContentAPI(c *Client) *ContentAPI {
	return &ContentAPI{c: c}
}

func (a *ContentAPI) get(ctx context.Context, path string, out any) error {
	return a.c.Do(ctx, ServiceContent, http.MethodGet, path, nil, nil, out)
}

// ArticlesByRoom lists the articles of a room.
func (a *ContentAPI) ArticlesByRoom(ctx context.Context, roomID int64) ([]Article, error) {
	var articles []Article
	if err := a.get(ctx, "/articles/room/"+strconv.FormatInt(roomID, 10), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Article fetches one article.
func (a *ContentAPI) Article(ctx context.Context, id int64) (*Article, error) {
	var article Article
	if err := a.get(ctx, "/articles/"+strconv.FormatInt(id, 10), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle publishes an article.
func (a *ContentAPI) CreateArticle(ctx context.Context, article Article) (*Article, error) {
	var created Article
	if err := a.c.Do(ctx, ServiceContent, http.MethodPost, "/articles", nil, article, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PostsByRoom lists the posts of a room.
func (a *ContentAPI) PostsByRoom(ctx context.Context, roomID int64) ([]Post, error) {
	var posts []Post
	if err := a.get(ctx, "/posts/room/"+strconv.FormatInt(roomID, 10), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a post.
func (a *ContentAPI) CreatePost(ctx context.Context, post Post) (*Post, error) {
	var created Post
	if err := a.c.Do(ctx, ServiceContent, http.MethodPost, "/posts", nil, post, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CommentsByPost lists the comments of a post.
func (a *ContentAPI) CommentsByPost(ctx context.Context, postID int64) ([]Comment, error) {
	var comments []Comment
	if err := a.get(ctx, "/comments/post/"+strconv.FormatInt(postID, 10), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment replies to a post.
func (a *ContentAPI) CreateComment(ctx context.Context, comment Comment) (*Comment, error) {
	var created Comment
	if err := a.c.Do(ctx, ServiceContent, http.MethodPost, "/comments", nil, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// WikiByRoom lists the wiki entries of a room.
func (a *ContentAPI) WikiByRoom(ctx context.Context, roomID int64) ([]WikiEntry, error) {
	var entries []WikiEntry
	if err := a.get(ctx, "/wiki/room/"+strconv.FormatInt(roomID, 10), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
