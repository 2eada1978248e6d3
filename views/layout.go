package views

import (
	"strings"

	"github.com/a-h/templ"
)

// Layout wraps body in the document shell: head, navigation, flashes, footer.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(h *w) {
		title := p.Site.Name
		if p.Meta.Title != "" {
			title = p.Meta.Title + " | " + p.Site.Name
		}
		desc := p.Meta.Description
		if desc == "" {
			desc = p.Site.Description
		}
		ogType := p.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!doctype html><html lang="ko"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><meta name="description" content="`)
		h.text(desc)
		h.raw(`"><meta property="og:title" content="`)
		h.text(title)
		h.raw(`"><meta property="og:type" content="`)
		h.text(ogType)
		h.raw(`">`)
		if p.Meta.URL != "" {
			h.raw(`<meta property="og:url" content="`)
			h.text(p.Meta.URL)
			h.raw(`"><link rel="canonical" href="`)
			h.text(p.Meta.URL)
			h.raw(`">`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		h.raw(`<link rel="icon" href="/public/logo.svg"><link rel="stylesheet" href="/public/site.css"></head><body>`)

		navbar(h, p)

		h.raw(`<main class="container">`)
		for _, f := range p.Flashes {
			h.rawf(`<div class="flash flash-%s" role="alert">`, templ.EscapeString(f.Kind))
			h.text(f.Message)
			h.raw(`</div>`)
		}
		h.component(body)
		h.raw(`</main>`)

		footer(h, p)
		h.raw(`</body></html>`)
	})
}

func navbar(h *w, p Page) {
	h.raw(`<nav class="navbar"><div class="container nav-inner"><a href="/" class="brand"><img src="/public/logo.svg" alt="" width="44" height="44"><span>꿈뜨레 <em>지역공동체</em></span></a><ul class="menu">`)
	for _, item := range Navigation {
		active := strings.HasPrefix(p.Path, strings.TrimSuffix(item.Path, "/"))
		href := item.Path
		if len(item.SubItems) > 0 {
			href = item.SubItems[0].Path
		}
		h.rawf(`<li><a class="%s" href="%s">`, NavClass(active), templ.EscapeString(href))
		h.text(item.Name)
		h.raw(`</a>`)
		if len(item.SubItems) > 0 {
			h.raw(`<ul class="submenu">`)
			for _, sub := range item.SubItems {
				h.rawf(`<li><a href="%s">`, templ.EscapeString(sub.Path))
				h.text(sub.Name)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</li>`)
	}
	h.raw(`</ul></div></nav>`)
}

func footer(h *w, p Page) {
	h.raw(`<footer class="footer"><div class="container"><p class="footer-name">`)
	h.text(p.Site.Name)
	h.raw(`</p><p>경상남도 창원시 마산회원구 · 비영리민간단체</p><p class="muted">&copy; `)
	h.text(p.Site.Name)
	h.raw(`. All rights reserved.</p></div></footer>`)
}

// NotFound is the 404 page body.
func NotFound() templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="card empty"><h2>페이지를 찾을 수 없습니다</h2><p>요청하신 페이지가 없거나 삭제되었습니다.</p><a class="btn" href="/">홈으로</a></section>`)
	})
}

// ServerError is the 500 page body.
func ServerError() templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="card empty"><h2>일시적인 오류가 발생했습니다</h2><p>잠시 후 다시 시도해 주세요.</p><a class="btn" href="/">홈으로</a></section>`)
	})
}
