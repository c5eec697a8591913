package scrape

import (
	"context"
	"image"
	"io"
	"net/http"
	"net/url"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/zombar/blogaudit/models"
)

// image payloads are capped; DecodeConfig only needs the header anyway
const maxImageProbeBytes = 4 << 20

// probeImageDimensions fills in missing header-image dimensions by fetching
// the image and decoding its header. Markup width/height attributes win when
// present; probe failures leave dimensions at zero and are logged, never
// fatal. Relative srcs are resolved against the page URL.
func (s *Scraper) probeImageDimensions(ctx context.Context, pageURL string, assessment *models.MultimediaAssessment) {
	img := assessment.HeaderImage
	if img == nil || img.Src == "" || (img.Width > 0 && img.Height > 0) {
		return
	}

	src := img.Src
	if base, err := url.Parse(pageURL); err == nil {
		if ref, err := url.Parse(src); err == nil {
			src = base.ResolveReference(ref).String()
		}
	}

	width, height, err := s.fetchImageConfig(ctx, src)
	if err != nil {
		s.logger.Warn("failed to probe header image dimensions", "src", img.Src, "error", err)
		return
	}
	if img.Width == 0 {
		img.Width = width
	}
	if img.Height == 0 {
		img.Height = height
	}
}

func (s *Scraper) fetchImageConfig(ctx context.Context, src string) (int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxImageProbeBytes))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
