package kkumttre

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []board.Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base, "/")},
		{Loc: views.BuildURL(base, "intro", "greetings")},
		{Loc: views.BuildURL(base, "intro", "history")},
		{Loc: views.BuildURL(base, "donation", "account")},
	}
	for _, cat := range board.Categories {
		u := sitemapURL{Loc: views.BuildURL(base, "board", string(cat))}
		// Posts are newest first, so the first match is the board's last change.
		for _, p := range posts {
			if p.Category == cat {
				u.LastMod = p.CreatedAt.UTC().Format("2006-01-02")
				break
			}
		}
		urls = append(urls, u)
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "board", string(p.Category), p.ID),
			LastMod: p.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
