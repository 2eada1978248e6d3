package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// seoul is used for every date shown on the site.
var seoul = time.FixedZone("KST", 9*60*60)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FormatDate renders t the way Korean browsers print a local date.
func FormatDate(t time.Time) string {
	t = t.In(seoul)
	return fmt.Sprintf("%d. %d. %d.", t.Year(), int(t.Month()), t.Day())
}

// FormatDateTime renders t with minutes, for the post detail page.
func FormatDateTime(t time.Time) string {
	return t.In(seoul).Format("2006.01.02 15:04")
}

// DataURLSize estimates the decoded size of a base64 data URL.
func DataURLSize(dataURL string) string {
	i := strings.Index(dataURL, ",")
	if i < 0 {
		return ""
	}
	return humanize.Bytes(uint64(len(dataURL)-i-1) * 3 / 4)
}

// DataURL returns s when it is a data: URL and "about:blank" otherwise.
// Used for every stored image and attachment written into src or href.
func DataURL(s string) string {
	if len(s) >= 5 && strings.EqualFold(s[:5], "data:") {
		return s
	}
	return "about:blank"
}

// NavClass returns CSS classes for a menu link, with active variant.
func NavClass(active bool) string {
	if active {
		return "nav-link active"
	}
	return "nav-link"
}

// w writes HTML fragments and remembers the first error, so components can
// be written as straight-line code.
type w struct {
	ctx context.Context
	out io.Writer
	err error
}

func (h *w) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.out, s)
}

// text writes s escaped for element content and attribute values.
func (h *w) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *w) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *w) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.out)
}

func component(fn func(h *w)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		h := &w{ctx: ctx, out: out}
		fn(h)
		return h.err
	})
}
