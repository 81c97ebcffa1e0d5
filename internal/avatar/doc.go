// Package avatar verifies that configured bot avatar URLs load as images
// before the widget adopts them.
//
// # Overview
//
// A Preloader issues one GET per URL and accepts a 2xx response that is an
// image by content type, file extension, or sniffed content. Successes are
// kept in a bigcache for a few minutes so polling the widget config does
// not re-download the same avatar. Failures are never cached; the caller
// falls back to assets.DefaultAvatarURL and tries again on the next
// refresh.
package avatar
