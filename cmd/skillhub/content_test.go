package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/app"
	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/skillhub/internal/transport/http"
)

// contentServer is an in-memory content service that records what it was sent.
type contentServer struct {
	mu       sync.Mutex
	articles []api.Article
	posts    []api.Post
	comments []api.Comment
	bearers  []string
}

func (s *contentServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/articles", func(w http.ResponseWriter, r *http.Request) {
		var article api.Article
		if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.bearers = append(s.bearers, r.Header.Get("Authorization"))
		article.ID = int64(len(s.articles) + 1)
		s.articles = append(s.articles, article)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(article)
	})
	mux.HandleFunc("GET /api/articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, a := range s.articles {
			if a.ID == id {
				_ = json.NewEncoder(w).Encode(a)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		var post api.Post
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		post.ID = int64(len(s.posts) + 1)
		s.posts = append(s.posts, post)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(post)
	})
	mux.HandleFunc("GET /api/comments/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		s.mu.Lock()
		defer s.mu.Unlock()
		out := make([]api.Comment, 0)
		for _, c := range s.comments {
			if c.PostID == id {
				out = append(out, c)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /api/comments", func(w http.ResponseWriter, r *http.Request) {
		var comment api.Comment
		if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		comment.ID = int64(len(s.comments) + 1)
		comment.AuthorName = "Ada"
		s.comments = append(s.comments, comment)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(comment)
	})
	return mux
}

// onlineEnv points the CLI at a demo backend and an in-memory content service.
func onlineEnv(t *testing.T) (string, *contentServer) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	if err := app.SeedCatalog(context.Background(), st, &logger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := config.Default()
	cfg.RateLimitPerMin = 0
	authService := auth.NewService(st, &auth.JWTConfig{Secret: []byte("test"), Issuer: "test", TTL: time.Hour})
	backend := httptest.NewServer(transporthttp.NewServer(authService, st, &cfg, &logger).Handler)
	t.Cleanup(backend.Close)

	content := &contentServer{}
	contentTS := httptest.NewServer(content.handler())
	t.Cleanup(contentTS.Close)

	dir := t.TempDir()
	t.Setenv("SKILLHUB_STATE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("SKILLHUB_USER_SERVICE_URL", backend.URL+"/api")
	t.Setenv("SKILLHUB_ROOM_SERVICE_URL", backend.URL+"/api")
	t.Setenv("SKILLHUB_CONTENT_SERVICE_URL", contentTS.URL+"/api")
	return dir, content
}

func signUp(t *testing.T, dir, email string) {
	t.Helper()
	out, err := runCLI(t, dir, "register", "--email", email, "--password", "secret1", "--firstname", "Ada")
	if err != nil {
		t.Fatalf("register %s: %v\n%s", email, err, out)
	}
}

func TestArticlesCreate(t *testing.T) {
	dir, content := onlineEnv(t)

	if _, err := runCLI(t, dir, "articles", "create", "--room", "101", "--title", "Go", "--content", "body"); err == nil {
		t.Fatal("expected article create to require a session")
	}

	signUp(t, dir, "ada@example.com")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{
			name: "default difficulty",
			args: []string{"--room", "101", "--title", "Go", "--content", "body"},
			want: "published article #1 Go",
		},
		{
			name:    "unknown difficulty",
			args:    []string{"--room", "101", "--title", "Go", "--content", "body", "--difficulty", "expert"},
			wantErr: true,
		},
		{
			name:    "missing title",
			args:    []string{"--room", "101", "--content", "body"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, dir, append([]string{"articles", "create"}, tt.args...)...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got:\n%s", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("articles create: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out)
			}
		})
	}

	content.mu.Lock()
	defer content.mu.Unlock()
	if len(content.articles) != 1 {
		t.Fatalf("expected one article sent, got %d", len(content.articles))
	}
	got := content.articles[0]
	if got.RoomID != 101 || got.UserID == 0 || got.DifficultyLevel != api.DifficultyBeginner {
		t.Errorf("unexpected article %+v", got)
	}
	if !strings.HasPrefix(content.bearers[0], "Bearer ") {
		t.Errorf("expected bearer credential, got %q", content.bearers[0])
	}
}

func TestArticleShow(t *testing.T) {
	dir, content := onlineEnv(t)
	content.articles = []api.Article{{ID: 1, RoomID: 101, Title: "Go", Content: "body", DifficultyLevel: api.DifficultyAdvanced}}

	out, err := runCLI(t, dir, "articles", "show", "1")
	if err != nil {
		t.Fatalf("articles show: %v", err)
	}
	if !strings.Contains(out, "Go [ADVANCED]") || !strings.Contains(out, "body") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := runCLI(t, dir, "articles", "show", "2"); err == nil {
		t.Fatal("expected a missing article to fail")
	}
}

func TestPostsCreate(t *testing.T) {
	dir, content := onlineEnv(t)
	signUp(t, dir, "ada@example.com")

	out, err := runCLI(t, dir, "posts", "create", "--room", "101", "--title", "Help", "--content", "how?", "--type", "question")
	if err != nil {
		t.Fatalf("posts create: %v", err)
	}
	if !strings.Contains(out, "posted #1 QUESTION") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := runCLI(t, dir, "posts", "create", "--room", "101", "--content", "x", "--type", "rant"); err == nil {
		t.Fatal("expected unknown post type to fail")
	}

	content.mu.Lock()
	defer content.mu.Unlock()
	if len(content.posts) != 1 || content.posts[0].PostType != api.PostTypeQuestion {
		t.Fatalf("unexpected posts %+v", content.posts)
	}
}

func TestComments(t *testing.T) {
	dir, content := onlineEnv(t)
	signUp(t, dir, "ada@example.com")

	out, err := runCLI(t, dir, "comments", "add", "1", "--content", "use a channel")
	if err != nil {
		t.Fatalf("comments add: %v", err)
	}
	if !strings.Contains(out, "replied #1") {
		t.Errorf("unexpected output:\n%s", out)
	}

	content.mu.Lock()
	content.comments[0].IsAccepted = true
	content.mu.Unlock()

	out, err = runCLI(t, dir, "comments", "1")
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if !strings.Contains(out, "#1 Ada: use a channel (accepted)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runCLI(t, dir, "comments", "zero"); err == nil {
		t.Fatal("expected invalid post id to fail")
	}
}

func TestUsers(t *testing.T) {
	dir, _ := onlineEnv(t)

	if _, err := runCLI(t, dir, "users"); err == nil {
		t.Fatal("expected users to require a session")
	}

	signUp(t, dir, "ada@example.com")
	signUp(t, dir, "grace@example.com")

	out, err := runCLI(t, dir, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	for _, email := range []string{"ada@example.com", "grace@example.com"} {
		if !strings.Contains(out, email) {
			t.Errorf("expected %s in:\n%s", email, out)
		}
	}
}
