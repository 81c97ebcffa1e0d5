// ABOUTME: API base resolution and URL joining
// ABOUTME: Picks the first configured base and derives the /api fallback URL

package gateway

import (
	"net/url"
	"strings"
)

// BaseSources are the places an API base can come from, highest priority
// first.
type BaseSources struct {
	Explicit          string // constructor option
	Global            string // page-global override
	ScriptDataAPIBase string // data-api-base on the script tag
	ScriptSrc         string // the script's own URL
	PageOrigin        string // origin of the host page
}

// ResolveBase returns the API base with a trailing slash. Relative values
// are resolved against the page origin. It returns "/" if nothing usable
// was given.
func ResolveBase(src BaseSources) string {
	page, _ := url.Parse(src.PageOrigin)

	for _, candidate := range []string{src.Explicit, src.Global, src.ScriptDataAPIBase} {
		if c := strings.TrimSpace(candidate); c != "" {
			return withTrailingSlash(resolveAgainst(page, c))
		}
	}

	if src.ScriptSrc != "" {
		if u, err := url.Parse(src.ScriptSrc); err == nil {
			if !u.IsAbs() && page != nil {
				u = page.ResolveReference(u)
			}
			if u.Scheme != "" && u.Host != "" {
				return u.Scheme + "://" + u.Host + "/"
			}
		}
	}

	if page != nil && page.Scheme != "" && page.Host != "" {
		return page.Scheme + "://" + page.Host + "/"
	}
	return "/"
}

func resolveAgainst(page *url.URL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || page == nil || page.Host == "" {
		return raw
	}
	return page.ResolveReference(u).String()
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// JoinURL appends path to base, dropping leading slashes from path.
func JoinURL(base, path string) string {
	return withTrailingSlash(base) + strings.TrimLeft(path, "/")
}

// apiFallbackURL inserts /api after the origin of raw. ok is false when
// raw already has an /api/ segment or is not an absolute URL.
func apiFallbackURL(raw string) (string, bool) {
	if strings.Contains(raw, "/api/") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host + "/api" + u.RequestURI(), true
}

// ResolveReference resolves a possibly relative resource URL (an avatar,
// say) against the API base.
func ResolveReference(base, raw string) string {
	b, err := url.Parse(base)
	if err != nil {
		return raw
	}
	r, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return b.ResolveReference(r).String()
}
