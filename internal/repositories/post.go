package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/shared"
)

const postColumns = `id, sequence, video_url, blog_post, analysis, research, created_at, updated_at, deleted_at`

var _ models.Repository[*models.Post] = (*PostRepository)(nil)

// PostRepository implements [models.Repository] for generated blog posts.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository with the given database connection
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new [models.Post] with a generated ID and sequence
func (r *PostRepository) Create(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "posts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	post.SetID(shared.GenerateID())
	post.SetSequence(sequence)

	query := `
		INSERT INTO posts (id, sequence, video_url, blog_post, analysis, research, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query,
		post.ID(),
		post.Sequence(),
		post.VideoURL(),
		post.BlogPost(),
		post.Analysis(),
		post.Research(),
		post.CreatedAt(),
		post.UpdatedAt(),
	); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// Get retrieves a post by ID, excluding soft-deleted posts
func (r *PostRepository) Get(id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetLatestByURL retrieves the most recent post generated for videoURL
func (r *PostRepository) GetLatestByURL(videoURL string) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE video_url = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`
	return r.scan(r.db.QueryRow(query, videoURL))
}

// Update replaces the post body and bumps updated_at
func (r *PostRepository) Update(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	post.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE posts SET blog_post = ?, analysis = ?, research = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, post.BlogPost(), post.Analysis(), post.Research(), now, post.ID())
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return expectOneRow(result, post.ID())
}

// Delete soft-deletes a post by ID
func (r *PostRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE posts SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return expectOneRow(result, id)
}

// List retrieves posts newest first, excluding soft-deleted posts.
//
// Supported criteria: "video_url" (string) and "limit" (int).
func (r *PostRepository) List(criteria map[string]any) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE deleted_at IS NULL`
	args := []any{}

	if videoURL, ok := criteria["video_url"].(string); ok && videoURL != "" {
		query += " AND video_url = ?"
		args = append(args, videoURL)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return posts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostRepository) scan(row scanner) (*models.Post, error) {
	var (
		id, videoURL, blogPost, analysis, research string
		sequence                                   int
		createdAt, updatedAt                       time.Time
		deletedAt                                  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &videoURL, &blogPost, &analysis, &research, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.HydratePost(id, sequence, videoURL, blogPost, analysis, research, createdAt, updatedAt, deleted), nil
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPostNotFound, id)
	}
	return nil
}

// PostArchive adapts [PostRepository] to the server's result sink.
type PostArchive struct {
	repo *PostRepository
}

// NewPostArchive creates a new PostArchive backed by repo
func NewPostArchive(repo *PostRepository) *PostArchive {
	return &PostArchive{repo: repo}
}

// SavePost persists a successful pipeline run and returns the new post ID.
func (a *PostArchive) SavePost(videoURL, blogPost, analysis, research string) (string, error) {
	post := models.NewPost(videoURL, blogPost, analysis, research)
	if err := a.repo.Create(post); err != nil {
		return "", err
	}
	return post.ID(), nil
}
