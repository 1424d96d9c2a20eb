package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestPost(url string) *models.Post {
	return models.NewPost(url, "# A Post\n\nbody", "analysis", "research")
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "posts")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "nonexistent"); err == nil {
		t.Error("expected error for missing sequence table")
	}
}

func TestPostRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		post := newTestPost("https://www.youtube.com/watch?v=abc")

		if err := repo.Create(post); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}

		if post.ID() == "" {
			t.Error("post ID should be set after creation")
		}
		if post.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", post.Sequence())
		}
	})

	t.Run("Create rejects invalid post", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		err := repo.Create(models.NewPost("", "# body", "", ""))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		post := newTestPost("https://www.youtube.com/watch?v=abc")
		if err := repo.Create(post); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}

		got, err := repo.Get(post.ID())
		if err != nil {
			t.Fatalf("failed to get post: %v", err)
		}

		if got.VideoURL() != post.VideoURL() {
			t.Errorf("expected video URL %s, got %s", post.VideoURL(), got.VideoURL())
		}
		if got.BlogPost() != post.BlogPost() {
			t.Errorf("expected blog post %q, got %q", post.BlogPost(), got.BlogPost())
		}
		if got.Analysis() != "analysis" || got.Research() != "research" {
			t.Errorf("expected debug fields to round trip, got %q / %q", got.Analysis(), got.Research())
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrPostNotFound) {
			t.Errorf("expected ErrPostNotFound, got %v", err)
		}
	})

	t.Run("GetLatestByURL", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		url := "https://youtu.be/abc"

		first := newTestPost(url)
		second := models.NewPost(url, "# Second Draft", "", "")
		for _, p := range []*models.Post{first, second, newTestPost("https://youtu.be/other")} {
			if err := repo.Create(p); err != nil {
				t.Fatalf("failed to create post: %v", err)
			}
		}

		got, err := repo.GetLatestByURL(url)
		if err != nil {
			t.Fatalf("GetLatestByURL() error = %v", err)
		}
		if got.ID() != second.ID() {
			t.Errorf("expected latest post %s, got %s", second.ID(), got.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		post := newTestPost("https://youtu.be/abc")
		if err := repo.Create(post); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}

		post.SetBlogPost("# Revised")
		if err := repo.Update(post); err != nil {
			t.Fatalf("failed to update post: %v", err)
		}

		got, _ := repo.Get(post.ID())
		if got.BlogPost() != "# Revised" {
			t.Errorf("expected revised body, got %q", got.BlogPost())
		}
	})

	t.Run("Update NotFound", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		post := newTestPost("https://youtu.be/abc")
		post.SetID("missing")
		if err := repo.Update(post); !errors.Is(err, shared.ErrPostNotFound) {
			t.Errorf("expected ErrPostNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		post := newTestPost("https://youtu.be/abc")
		if err := repo.Create(post); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}

		if err := repo.Delete(post.ID()); err != nil {
			t.Fatalf("failed to delete post: %v", err)
		}

		if _, err := repo.Get(post.ID()); err == nil {
			t.Error("expected error when getting deleted post")
		}

		if err := repo.Delete(post.ID()); err == nil {
			t.Error("deleting twice should fail")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewPostRepository(setupTestDB(t))
		urls := []string{"https://youtu.be/a", "https://youtu.be/b", "https://youtu.be/a"}
		for _, u := range urls {
			if err := repo.Create(newTestPost(u)); err != nil {
				t.Fatalf("failed to create post: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list posts: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 posts, got %d", len(all))
		}
		if all[0].Sequence() < all[1].Sequence() {
			t.Error("expected newest first ordering")
		}

		filtered, _ := repo.List(map[string]any{"video_url": "https://youtu.be/a"})
		if len(filtered) != 2 {
			t.Errorf("expected 2 posts for video a, got %d", len(filtered))
		}

		limited, _ := repo.List(map[string]any{"limit": 1})
		if len(limited) != 1 {
			t.Errorf("expected 1 post with limit, got %d", len(limited))
		}
	})
}

func TestPostArchive(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	archive := NewPostArchive(repo)

	id, err := archive.SavePost("https://youtu.be/abc", "# Saved", "a", "r")
	if err != nil {
		t.Fatalf("SavePost() error = %v", err)
	}

	got, err := repo.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title() != "Saved" {
		t.Errorf("expected title Saved, got %q", got.Title())
	}
}
