package ogscraper

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// ResolveImage picks a display image for a page. Candidates are tried in
// order: og:image, twitter:image, meta "image", the first suitable <img> in the
// markup, then the favicon. Relative candidates are resolved against pageURL;
// candidates that cannot be made absolute are skipped.
func ResolveImage(meta *Metadata, pageURL string) string {
	if meta == nil {
		return ""
	}

	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		base = nil
	}

	candidates := []string{
		first(meta.Images),
		first(meta.TwitterImages),
		meta.MetaImage,
		markupImage(meta.HTML),
		meta.Favicon,
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if abs, ok := absolute(base, c); ok {
			return abs
		}
	}

	return ""
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func absolute(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if ref.IsAbs() {
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return "", false
		}
		return raw, true
	}

	if base == nil || !base.IsAbs() {
		return "", false
	}

	return base.ResolveReference(ref).String(), true
}

// markupImage returns the src of the first <img> pointing at a png, jpg or gif,
// preferring one whose path mentions "logo".
func markupImage(markup string) string {
	if markup == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var fallback, logo string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		u, err := url.Parse(src)
		if err != nil {
			return true
		}

		p := strings.ToLower(u.Path)
		if _, ok := imageExtensions[path.Ext(p)]; !ok {
			return true
		}

		if strings.Contains(p, "logo") {
			logo = src
			return false
		}
		if fallback == "" {
			fallback = src
		}
		return true
	})

	if logo != "" {
		return logo
	}
	return fallback
}
