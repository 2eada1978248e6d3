package kkumttre

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/kkumttre/kkumttre/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the frame for a full page: site config, metadata, CSRF token,
// the visitor's queued flashes and any extra messages for this response.
func (a *App) page(c echo.Context, meta views.PageMeta, extra ...views.Flash) views.Page {
	if meta.URL == "" {
		meta.URL = strings.TrimSuffix(a.Config.URL, "/") + c.Request().URL.Path
	}
	return views.Page{
		Site: views.SiteConfig{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
		},
		Meta:    meta,
		Path:    c.Request().URL.Path,
		CSRF:    CsrfToken(c),
		Flashes: append(takeFlashes(c), extra...),
	}
}

// renderPage renders body inside the site layout.
func (a *App) renderPage(c echo.Context, code int, meta views.PageMeta, body templ.Component, extra ...views.Flash) error {
	return RenderStatus(c, code, views.Layout(a.page(c, meta, extra...), body))
}
