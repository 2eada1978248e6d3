package kkumttre

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/storage"
	"github.com/kkumttre/kkumttre/views"
)

// Number of posts of each kind on the home page.
const (
	homeNotices  = 5
	homeProjects = 3
)

func (a *App) handleHome(c echo.Context) error {
	notices := firstN(a.Board.ByCategory(board.Notices), homeNotices)
	projects := firstN(a.Board.ByCategory(board.Projects), homeProjects)
	return a.renderPage(c, http.StatusOK, views.PageMeta{}, views.Home(notices, projects))
}

func (a *App) handleGreetings(c echo.Context) error {
	return a.renderPage(c, http.StatusOK, views.PageMeta{Title: "대표인사말"}, views.Greetings())
}

func (a *App) handleHistory(c echo.Context) error {
	return a.renderPage(c, http.StatusOK, views.PageMeta{Title: "연혁"}, views.History())
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Board.All())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Board.All())
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /board/*/write/\nSitemap: %s\n", views.BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

// handleHealth reports storage usage as well as liveness.
func (a *App) handleHealth(c echo.Context) error {
	used, err := a.backend.Size(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
	}
	resp := map[string]any{
		"status":     "ok",
		"posts":      len(a.Board.All()),
		"used_bytes": used,
		"used":       humanize.IBytes(uint64(used)),
	}
	if l, ok := a.backend.(*storage.Limited); ok {
		resp["quota"] = humanize.IBytes(uint64(l.Capacity()))
	}
	return c.JSON(http.StatusOK, resp)
}

func redirectTo(path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, path)
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderPage(c, http.StatusNotFound, views.PageMeta{Title: "페이지를 찾을 수 없습니다"}, views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = a.renderPage(c, code, views.PageMeta{Title: "오류"}, views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func firstN(posts []board.Post, n int) []board.Post {
	if len(posts) > n {
		return posts[:n]
	}
	return posts
}
