package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytblog/internal/models"
)

var _ list.Item = postItem{}

// postItem wraps [models.Post] to implement [list.Item].
type postItem struct {
	post *models.Post
}

func (i postItem) FilterValue() string { return i.post.Title() }
func (i postItem) Title() string       { return i.post.Title() }
func (i postItem) Description() string {
	return fmt.Sprintf("%s • %s", i.post.CreatedAt().Format("2006-01-02 15:04"), i.post.VideoURL())
}
