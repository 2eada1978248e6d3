package kkumttre

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/storage"
	"github.com/kkumttre/kkumttre/views"
)

// User-facing messages of the board.
const (
	msgValidation   = "제목과 내용을 입력해주세요."
	msgQuota        = "브라우저 저장 공간이 부족합니다. 오래된 게시글이나 큰 사진을 삭제한 후 다시 시도해 주세요."
	msgTooMany      = "잠시 후 다시 시도해 주세요. 글 등록이 너무 잦습니다."
	msgSaved        = "게시글이 등록되었습니다."
	msgDeleted      = "게시글이 삭제되었습니다."
	msgPostNotFound = "게시글을 찾을 수 없습니다."
)

// category resolves the :type route parameter. Unknown boards are 404.
func category(c echo.Context) (board.Category, error) {
	cat, ok := board.ParseCategory(c.Param("type"))
	if !ok {
		return "", echo.ErrNotFound
	}
	return cat, nil
}

func (a *App) handleBoardList(c echo.Context) error {
	cat, err := category(c)
	if err != nil {
		return err
	}
	if string(cat) != c.Param("type") {
		return c.Redirect(http.StatusMovedPermanently, "/board/"+string(cat)+"/")
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	posts := a.Board.Search(cat, q)
	meta := views.PageMeta{Title: cat.Title(), Description: cat.Description()}
	return a.renderPage(c, http.StatusOK, meta, views.BoardList(cat, posts, q))
}

func (a *App) handleWriteForm(c echo.Context) error {
	cat, err := category(c)
	if err != nil {
		return err
	}
	return a.renderWriteForm(c, http.StatusOK, cat, views.WriteForm{})
}

func (a *App) renderWriteForm(c echo.Context, code int, cat board.Category, form views.WriteForm, flashes ...views.Flash) error {
	meta := views.PageMeta{Title: cat.Title() + " 글쓰기"}
	return a.renderPage(c, code, meta, views.PostWrite(cat, form, CsrfToken(c), sizeLabel(a.Config.AttachmentLimit)), flashes...)
}

// handleWriteSubmit validates the text fields first, then ingests uploads,
// then persists. Nothing is stored unless every step succeeds.
func (a *App) handleWriteSubmit(c echo.Context) error {
	cat, err := category(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}
	values := views.WriteForm{
		Title:   c.FormValue("title"),
		Author:  c.FormValue("author"),
		Content: c.FormValue("content"),
	}

	if !a.writeLimiter.Allow(c.RealIP()) {
		return a.renderWriteForm(c, http.StatusTooManyRequests, cat, values,
			views.Flash{Kind: flashError, Message: msgTooMany})
	}

	draft := board.Draft{
		Category: cat,
		Title:    values.Title,
		Content:  values.Content,
		Author:   values.Author,
	}
	if err := draft.Validate(); err != nil {
		return a.renderWriteForm(c, http.StatusUnprocessableEntity, cat, values,
			views.Flash{Kind: flashError, Message: msgValidation})
	}

	up, problems, err := a.readUploads(ctx, form)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return a.renderWriteForm(c, http.StatusUnprocessableEntity, cat, values, problems...)
	}
	draft.Images = up.Images
	draft.FileName = up.FileName
	draft.FileData = up.FileData

	post, err := board.NewPost(draft, a.now())
	if err != nil {
		var verr *board.ValidationError
		if errors.As(err, &verr) {
			return a.renderWriteForm(c, http.StatusUnprocessableEntity, cat, values,
				views.Flash{Kind: flashError, Message: msgValidation})
		}
		return err
	}
	if err := a.Board.Add(ctx, post); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			a.Log.WithFields(log.Fields{"board": cat, "images": len(post.Images)}).Warn("post rejected: storage quota exceeded")
			return a.renderWriteForm(c, http.StatusInsufficientStorage, cat, values,
				views.Flash{Kind: flashError, Message: msgQuota})
		}
		return fmt.Errorf("kkumttre: save post: %w", err)
	}

	a.Log.WithFields(log.Fields{"board": cat, "id": post.ID, "images": len(post.Images)}).Info("post created")
	if err := addFlash(c, flashInfo, msgSaved); err != nil {
		a.Log.WithError(err).Warn("flash not saved")
	}
	return c.Redirect(http.StatusSeeOther, "/board/"+string(cat)+"/")
}

func (a *App) handlePost(c echo.Context) error {
	cat, err := category(c)
	if err != nil {
		return err
	}
	post, err := a.Board.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, board.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	if post.Category != cat || string(cat) != c.Param("type") {
		return c.Redirect(http.StatusMovedPermanently, "/board/"+string(post.Category)+"/"+views.PathEscape(post.ID)+"/")
	}
	meta := views.PageMeta{
		Title:       post.Title,
		Description: summary(post.Content, 120),
		OGType:      "article",
	}
	return a.renderPage(c, http.StatusOK, meta, views.PostView(post, CsrfToken(c)))
}

func (a *App) handleDelete(c echo.Context) error {
	cat, err := category(c)
	if err != nil {
		return err
	}
	list := "/board/" + string(cat) + "/"
	id := c.Param("id")
	if _, err := a.Board.Get(id); err != nil {
		if !errors.Is(err, board.ErrNotFound) {
			return err
		}
		_ = addFlash(c, flashError, msgPostNotFound)
		return c.Redirect(http.StatusSeeOther, list)
	}
	if err := a.Board.Delete(c.Request().Context(), id); err != nil {
		a.Log.WithError(err).WithField("id", id).Error("delete post")
		_ = addFlash(c, flashError, "게시글을 삭제하지 못했습니다. 잠시 후 다시 시도해 주세요.")
		return c.Redirect(http.StatusSeeOther, list+views.PathEscape(id)+"/")
	}
	a.Log.WithFields(log.Fields{"board": cat, "id": id}).Info("post deleted")
	_ = addFlash(c, flashInfo, msgDeleted)
	return c.Redirect(http.StatusSeeOther, list)
}

// summary returns the first n runes of s on one line.
func summary(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
