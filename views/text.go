package views

import (
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var reURL = regexp.MustCompile(`https?://[^\s<>"']+`)

// Body renders a post body: text is escaped, blank lines split paragraphs,
// single newlines become <br>, and bare http(s) links become anchors.
func Body(content string) templ.Component {
	return component(func(h *w) {
		content = strings.ReplaceAll(content, "\r\n", "\n")
		for _, para := range strings.Split(content, "\n\n") {
			if strings.TrimSpace(para) == "" {
				continue
			}
			h.raw("<p>")
			for i, line := range strings.Split(para, "\n") {
				if i > 0 {
					h.raw("<br>")
				}
				h.raw(linkify(line))
			}
			h.raw("</p>")
		}
	})
}

func linkify(line string) string {
	var b strings.Builder
	last := 0
	for _, loc := range reURL.FindAllStringIndex(line, -1) {
		b.WriteString(templ.EscapeString(line[last:loc[0]]))
		u := templ.EscapeString(line[loc[0]:loc[1]])
		b.WriteString(`<a href="` + u + `" target="_blank" rel="noopener noreferrer">` + u + `</a>`)
		last = loc[1]
	}
	b.WriteString(templ.EscapeString(line[last:]))
	return b.String()
}
