// YouTube caption [TranscriptSource] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/ytblog/internal/shared"
)

const defaultYTBaseURL string = "https://www.youtube.com"

var (
	DefaultCaptionLanguages = []string{"en", "hi", "ja", "es"}

	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// TranscriptError is a transcript failure with a user-facing reason.
type TranscriptError struct {
	Kind   error
	Reason string
}

func (e *TranscriptError) Error() string { return e.Reason }

func (e *TranscriptError) Unwrap() error { return e.Kind }

// CaptionTrack is one entry of the watch page's caption track list.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for automatic captions
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// Automatic reports whether the track was generated by speech recognition.
func (c CaptionTrack) Automatic() bool {
	return c.Kind == "asr"
}

type json3Captions struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// YouTubeTranscriptsOpts configures [YouTubeTranscripts].
type YouTubeTranscriptsOpts struct {
	BaseURL    string
	Languages  []string
	Cookies    string
	UserAgent  string
	HTTPClient *http.Client
}

// YouTubeTranscripts fetches caption text for YouTube videos.
type YouTubeTranscripts struct {
	baseURL   string
	languages []string
	fetch     fetcher
}

// NewYouTubeTranscripts creates a transcript source.
func NewYouTubeTranscripts(opts YouTubeTranscriptsOpts) *YouTubeTranscripts {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYTBaseURL
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultCaptionLanguages
	}

	return &YouTubeTranscripts{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		languages: opts.Languages,
		fetch:     newFetcher(opts.HTTPClient, opts.UserAgent, opts.Cookies),
	}
}

// Name returns the service name.
func (y *YouTubeTranscripts) Name() string {
	return "YouTube"
}

// Transcript returns the caption text of the video at videoURL.
func (y *YouTubeTranscripts) Transcript(ctx context.Context, videoURL string) (string, error) {
	id, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	tracks, err := y.CaptionTracks(ctx, id)
	if err != nil {
		return "", err
	}

	track := ChooseTrack(tracks, y.languages)
	if track == nil || track.BaseURL == "" {
		return "", &TranscriptError{Kind: shared.ErrNoSubtitles, Reason: "Could not find a valid subtitle URL."}
	}

	return y.download(ctx, track.BaseURL)
}

// CaptionTracks lists the caption tracks advertised on the video's watch page.
func (y *YouTubeTranscripts) CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := y.fetch.get(ctx, y.baseURL+"/watch?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: watch page returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	tracks, err := parseCaptionTracks(string(resp.Body))
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, &TranscriptError{Kind: shared.ErrNoSubtitles, Reason: "No subtitles found in video metadata."}
	}

	return tracks, nil
}

func (y *YouTubeTranscripts) download(ctx context.Context, baseURL string) (string, error) {
	captionURL, err := json3URL(baseURL)
	if err != nil {
		return "", &TranscriptError{Kind: shared.ErrNoSubtitles, Reason: "Could not find a valid subtitle URL."}
	}

	resp, err := y.fetch.get(ctx, captionURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TranscriptError{
			Kind:   shared.ErrAPIRequest,
			Reason: fmt.Sprintf("Failed to download subs. Status: %d", resp.StatusCode),
		}
	}

	return parseJSON3(resp.Body)
}

// ExtractVideoID returns the 11 character video ID from a YouTube URL or a bare ID.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidVideoURL, raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = strings.Split(strings.Trim(u.Path, "/"), "/")[0]
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				candidate = parts[1]
			}
		}
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidVideoURL, raw)
	}
	return candidate, nil
}

// ChooseTrack picks the first preferred language that has a track, favouring manual captions,
// and falls back to the first track.
func ChooseTrack(tracks []CaptionTrack, languages []string) *CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}

	for _, lang := range languages {
		var auto *CaptionTrack
		for i := range tracks {
			if !strings.EqualFold(tracks[i].LanguageCode, lang) {
				continue
			}
			if !tracks[i].Automatic() {
				return &tracks[i]
			}
			if auto == nil {
				auto = &tracks[i]
			}
		}
		if auto != nil {
			return auto
		}
	}

	return &tracks[0]
}

func parseCaptionTracks(page string) ([]CaptionTrack, error) {
	const marker = `"captionTracks":`

	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, nil
	}

	var tracks []CaptionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("%w: malformed caption track list: %v", shared.ErrAPIRequest, err)
	}
	return tracks, nil
}

func json3URL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidInput, baseURL)
	}

	q := u.Query()
	q.Set("fmt", "json3")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseJSON3(body []byte) (string, error) {
	var captions json3Captions
	if err := json.Unmarshal(body, &captions); err != nil {
		return "", fmt.Errorf("%w: failed to decode captions: %v", shared.ErrAPIRequest, err)
	}

	var parts []string
	for _, event := range captions.Events {
		for _, seg := range event.Segs {
			if txt := strings.TrimSpace(seg.UTF8); txt != "" {
				parts = append(parts, txt)
			}
		}
	}

	return strings.Join(parts, " "), nil
}
