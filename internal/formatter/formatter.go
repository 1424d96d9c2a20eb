// package formatter exports generated blog posts to files (Markdown, HTML, plain text) and post listings to CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/render"
	"github.com/desertthunder/ytblog/internal/shared"
)

// Format is an export file format.
type Format string

const (
	Markdown Format = "md"
	HTML     Format = "html"
	Text     Format = "txt"
	JSON     Format = "json"
)

// ParseFormat accepts the common aliases of each format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "txt", "text", "plain":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use md, html, txt or json)", shared.ErrInvalidInput, s)
	}
}

// Export is the data every format is produced from.
type Export struct {
	Title     string    `json:"title"`
	VideoURL  string    `json:"video_url"`
	BlogPost  string    `json:"blog_post"`
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id,omitempty"`
}

// FromPost builds an Export from a stored post.
func FromPost(p *models.Post) Export {
	return Export{Title: p.Title(), VideoURL: p.VideoURL(), BlogPost: p.BlogPost(), CreatedAt: p.CreatedAt(), ID: p.ID()}
}

// FromMarkdown builds an Export for a post that was never stored.
func FromMarkdown(videoURL, md string) Export {
	return FromPost(models.NewPost(videoURL, md, "", ""))
}

// ExportToMarkdown returns the post with a source footer
func ExportToMarkdown(e Export) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.TrimRight(e.BlogPost, "\n"))
	buf.WriteString("\n\n---\n\n")
	fmt.Fprintf(&buf, "*Generated from [%s](%s) on %s*\n", e.VideoURL, e.VideoURL, e.CreatedAt.Format("January 2, 2006"))
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 46rem; margin: 3rem auto; padding: 0 1rem; font-family: Georgia, serif; line-height: 1.6; }
pre { padding: 1rem; overflow-x: auto; }
{{.CSS}}
</style>
</head>
<body>
<article>
{{.Body}}
</article>
<footer><p>Generated from <a href="{{.VideoURL}}">{{.VideoURL}}</a> on {{.Date}}</p></footer>
</body>
</html>
`))

// ExportToHTML renders the post into a standalone, sanitized HTML document
func ExportToHTML(e Export) ([]byte, error) {
	body, err := render.Markdown(e.BlogPost)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]any{
		"Title":    e.Title,
		"CSS":      template.CSS(render.Stylesheet()),
		"Body":     template.HTML(body),
		"VideoURL": e.VideoURL,
		"Date":     e.CreatedAt.Format("January 2, 2006"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// ExportToText strips all markup, keeping one block per paragraph, heading or list item
func ExportToText(e Export) ([]byte, error) {
	body, err := render.Markdown(e.BlogPost)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered post: %w", err)
	}

	var buf bytes.Buffer
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("li, blockquote").Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1":
			buf.WriteString(strings.ToUpper(text))
		case "li":
			buf.WriteString("- " + shared.CollapseSpace(text))
		case "pre":
			buf.WriteString(text)
		default:
			buf.WriteString(shared.CollapseSpace(text))
		}
		buf.WriteString("\n\n")
	})

	fmt.Fprintf(&buf, "Source: %s\n", e.VideoURL)
	return blankLines.ReplaceAll(buf.Bytes(), []byte("\n\n")), nil
}

// ExportToJSON returns the export as indented JSON
func ExportToJSON(e Export) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}
	return append(data, '\n'), nil
}

// Render produces e in format f.
func Render(e Export, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return ExportToMarkdown(e)
	case HTML:
		return ExportToHTML(e)
	case Text:
		return ExportToText(e)
	case JSON:
		return ExportToJSON(e)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, f)
	}
}

// WriteExport writes e in format f to path and returns the path written.
//
// An empty path defaults to {slug}.{format} in the working directory; a directory path gets the same name inside it.
func WriteExport(e Export, f Format, path string) (string, error) {
	data, err := Render(e, f)
	if err != nil {
		return "", err
	}

	name := Slug(e.Title) + "." + string(f)
	switch {
	case path == "":
		path = name
	case isDir(path):
		path = filepath.Join(path, name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return path, nil
}

// ExportListToCSV converts posts to CSV with columns: ID, Sequence, Title, Video URL, Created
func ExportListToCSV(posts []*models.Post) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Sequence", "Title", "Video URL", "Created"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range posts {
		record := []string{
			p.ID(),
			strconv.Itoa(p.Sequence()),
			p.Title(),
			p.VideoURL(),
			p.CreatedAt().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title into a lowercase, dash-separated file name.
func Slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	s = shared.Truncate(s, 60)
	s = strings.TrimRight(s, "-.")
	if s == "" {
		return "blog-post"
	}
	return s
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
