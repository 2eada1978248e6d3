package kkumttre

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kkumttre/kkumttre/settings"
	"github.com/kkumttre/kkumttre/storage"
	"github.com/kkumttre/kkumttre/views"
)

const msgAccountSaved = "계좌 정보가 성공적으로 변경되었습니다."

var accountMeta = views.PageMeta{
	Title:       "후원 계좌 안내",
	Description: "꿈뜨레 지역공동체 후원 계좌 안내",
}

func (a *App) handleAccount(c echo.Context) error {
	editing := c.QueryParam("edit") != ""
	return a.renderPage(c, http.StatusOK, accountMeta, views.Account(a.Settings.Get(), editing, CsrfToken(c)))
}

func (a *App) handleAccountSave(c echo.Context) error {
	next := settings.SiteSettings{
		BankName:      c.FormValue("bankName"),
		AccountNumber: c.FormValue("accountNumber"),
		AccountHolder: c.FormValue("accountHolder"),
	}
	if err := a.Settings.Update(c.Request().Context(), next); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			return a.renderPage(c, http.StatusInsufficientStorage, accountMeta,
				views.Account(next, true, CsrfToken(c)),
				views.Flash{Kind: flashError, Message: msgQuota})
		}
		return err
	}
	a.Log.WithField("bank", next.BankName).Info("donation account updated")
	if err := addFlash(c, flashInfo, msgAccountSaved); err != nil {
		a.Log.WithError(err).Warn("flash not saved")
	}
	return c.Redirect(http.StatusSeeOther, "/donation/account/")
}
