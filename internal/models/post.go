package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Post is a generated blog post persisted with the intermediate output it was drafted from.
type Post struct {
	id        string
	sequence  int
	videoURL  string
	blogPost  string
	analysis  string
	research  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*Post)(nil)

// NewPost creates an unsaved [Post]. The repository assigns its ID and sequence on create.
func NewPost(videoURL, blogPost, analysis, research string) *Post {
	now := time.Now().UTC()
	return &Post{
		videoURL:  videoURL,
		blogPost:  blogPost,
		analysis:  analysis,
		research:  research,
		createdAt: now,
		updatedAt: now,
	}
}

// HydratePost rebuilds a [Post] from stored column values.
func HydratePost(id string, sequence int, videoURL, blogPost, analysis, research string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Post {
	return &Post{
		id:        id,
		sequence:  sequence,
		videoURL:  videoURL,
		blogPost:  blogPost,
		analysis:  analysis,
		research:  research,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (p *Post) ID() string            { return p.id }
func (p *Post) Sequence() int         { return p.sequence }
func (p *Post) VideoURL() string      { return p.videoURL }
func (p *Post) BlogPost() string      { return p.blogPost }
func (p *Post) Analysis() string      { return p.analysis }
func (p *Post) Research() string      { return p.research }
func (p *Post) CreatedAt() time.Time  { return p.createdAt }
func (p *Post) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Post) DeletedAt() *time.Time { return p.deletedAt }

func (p *Post) SetID(id string)          { p.id = id }
func (p *Post) SetSequence(seq int)      { p.sequence = seq }
func (p *Post) SetBlogPost(md string)    { p.blogPost = md }
func (p *Post) SetUpdatedAt(t time.Time) { p.updatedAt = t }

// Title returns the first markdown heading of the post, or the video URL when there is none.
func (p *Post) Title() string {
	for _, line := range strings.Split(p.blogPost, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if title := strings.TrimSpace(strings.TrimLeft(line, "#")); title != "" {
				return title
			}
		}
	}
	return p.videoURL
}

// Validate checks required fields.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.videoURL) == "" {
		return errors.New("video URL is required")
	}
	if u, err := url.Parse(p.videoURL); err != nil || u.Host == "" {
		return errors.New("video URL must be absolute")
	}
	if strings.TrimSpace(p.blogPost) == "" {
		return errors.New("blog post is required")
	}
	return nil
}
