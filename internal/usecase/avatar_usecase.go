package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"topjob-gateway/internal/events"
	"topjob-gateway/pkg/logger"

	"golang.org/x/image/draw"
)

const (
	thumbnailSize    = 64
	thumbnailQuality = 80
)

// AvatarSource fetches the original avatar image for a subject.
type AvatarSource interface {
	Fetch(ctx context.Context, subjectID string) (image.Image, error)
}

// AvatarCache keeps downscaled per-subject avatar thumbnails. It is
// deliberately decoupled from the session manager: it learns about identity
// swaps and logouts only through the invalidation broadcast, and drops the
// affected entries before the broadcast settles.
type AvatarCache struct {
	mu     sync.Mutex
	source AvatarSource
	thumbs map[string][]byte
}

func NewAvatarCache(source AvatarSource, dispatcher events.Dispatcher) *AvatarCache {
	c := &AvatarCache{
		source: source,
		thumbs: make(map[string][]byte),
	}
	dispatcher.Subscribe(events.TypeSessionInvalidated, c.onInvalidate)
	return c
}

// Thumbnail returns the cached JPEG thumbnail for the subject, fetching and
// downscaling on a miss.
func (c *AvatarCache) Thumbnail(ctx context.Context, subjectID string) ([]byte, error) {
	c.mu.Lock()
	if thumb, ok := c.thumbs[subjectID]; ok {
		c.mu.Unlock()
		return thumb, nil
	}
	c.mu.Unlock()

	img, err := c.source.Fetch(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	thumb, err := resizeToThumbnail(img)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.thumbs[subjectID] = thumb
	c.mu.Unlock()
	return thumb, nil
}

// Cached reports whether a thumbnail is held for the subject.
func (c *AvatarCache) Cached(subjectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.thumbs[subjectID]
	return ok
}

func (c *AvatarCache) onInvalidate(_ context.Context, event events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.PreviousSubjectID != "" {
		delete(c.thumbs, event.PreviousSubjectID)
		return
	}
	// Logout carries no previous subject; drop everything.
	for subjectID := range c.thumbs {
		delete(c.thumbs, subjectID)
	}
}

func resizeToThumbnail(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	resized := image.NewRGBA(image.Rect(0, 0, thumbnailSize, thumbnailSize))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// HTTPAvatarSource fetches avatars from the backend's avatar endpoint.
type HTTPAvatarSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAvatarSource(baseURL string) *HTTPAvatarSource {
	return &HTTPAvatarSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPAvatarSource) Fetch(ctx context.Context, subjectID string) (image.Image, error) {
	url := fmt.Sprintf("%s/v1/users/%s/avatar", s.baseURL, subjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Debug("Avatar fetch failed", "subject_id", subjectID, "status", resp.StatusCode)
		return nil, fmt.Errorf("avatar fetch: unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("avatar fetch: %w", err)
	}
	return img, nil
}
