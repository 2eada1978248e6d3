package kkumttre

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/settings"
	"github.com/kkumttre/kkumttre/storage"
)

const testCSRF = "test-csrf-token"

func setupTestApp(t *testing.T, cfg SiteConfig, backend storage.Backend) *App {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemory()
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-session-secret"
	}
	if cfg.URL == "" {
		cfg.URL = "https://kkumttre.example"
	}
	logger, _ := test.NewNullLogger()
	app := New(cfg, WithBackend(backend), WithLogger(logger))
	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func serve(app *App, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

type testFile struct {
	field, name string
	data        []byte
}

func writeRequest(t *testing.T, target string, fields map[string]string, files ...testFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("_csrf", testCSRF); err != nil {
		t.Fatalf("write csrf: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create file %s: %v", f.name, err)
		}
		fw.Write(f.data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	if values == nil {
		values = url.Values{}
	}
	values.Set("_csrf", testCSRF)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, G: 80, B: 40, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func addTestPost(t *testing.T, app *App, cat board.Category, title string) board.Post {
	t.Helper()
	p, err := board.NewPost(board.Draft{Category: cat, Title: title, Content: title + " 내용"}, time.Now())
	if err != nil {
		t.Fatalf("NewPost failed: %v", err)
	}
	if err := app.Board.Add(context.Background(), p); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return p
}

func TestHomeShowsLatestPosts(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)
	addTestPost(t, app, board.Notices, "정기총회 안내")

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "정기총회 안내") {
		t.Errorf("home page does not list the notice")
	}
}

func TestStaticPagesAndRedirects(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/intro/greetings/", http.StatusOK, ""},
		{"/intro/history/", http.StatusOK, ""},
		{"/intro/", http.StatusMovedPermanently, "/intro/greetings/"},
		{"/donation/", http.StatusMovedPermanently, "/donation/account/"},
		{"/board/notices", http.StatusMovedPermanently, "/board/notices/"},
		{"/board/notice/", http.StatusMovedPermanently, "/board/notices/"},
		{"/board/unknown/", http.StatusNotFound, ""},
		{"/public/site.css", http.StatusOK, ""},
	}
	for _, tt := range tests {
		rec := serve(app, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("GET %s: status = %d, want %d", tt.path, rec.Code, tt.code)
			continue
		}
		if tt.location != "" && rec.Header().Get("Location") != tt.location {
			t.Errorf("GET %s: Location = %q, want %q", tt.path, rec.Header().Get("Location"), tt.location)
		}
	}
}

func TestNotFoundRendersPage(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/board/notices/missing/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "페이지를 찾을 수 없습니다") {
		t.Errorf("404 page not rendered: %s", rec.Body.String())
	}
}

func TestWriteCreatesPostWithImages(t *testing.T) {
	backend := storage.NewMemory()
	app := setupTestApp(t, SiteConfig{}, backend)

	req := writeRequest(t, "/board/projects/write/", map[string]string{
		"title":   "김장 나눔 행사",
		"content": "올해도 함께 했습니다.",
		"author":  "",
	},
		testFile{"images", "wide.png", pngBytes(t, 1500, 300)},
		testFile{"images", "small.png", pngBytes(t, 40, 20)},
		testFile{"file", "안내문.txt", []byte("hello attachment")},
	)
	rec := serve(app, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/board/projects/" {
		t.Errorf("Location = %q, want /board/projects/", loc)
	}

	posts := app.Board.All()
	if len(posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.Author != board.DefaultAuthor {
		t.Errorf("Author = %q, want %q", p.Author, board.DefaultAuthor)
	}
	if len(p.Images) != 2 {
		t.Fatalf("Images = %d, want 2", len(p.Images))
	}
	for i, img := range p.Images {
		if !strings.HasPrefix(img, "data:image/jpeg;base64,") {
			t.Errorf("image %d is not a JPEG data URL", i)
		}
	}
	if p.FileName != "안내문.txt" || !strings.HasPrefix(p.FileData, "data:text/plain") {
		t.Errorf("attachment = %q (%d bytes of data URL)", p.FileName, len(p.FileData))
	}

	raw, ok, err := backend.Get(context.Background(), board.DefaultKey)
	if err != nil || !ok {
		t.Fatalf("posts slot not written: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(raw, "김장 나눔 행사") {
		t.Errorf("posts slot does not contain the new post")
	}

	// The success flash is shown once on the next page.
	session := cookieNamed(rec, sessionName)
	if session == nil {
		t.Fatalf("no session cookie set")
	}
	list := serve(app, httptest.NewRequest(http.MethodGet, "/board/projects/", nil), session)
	if !strings.Contains(list.Body.String(), msgSaved) {
		t.Errorf("list page does not show the saved flash")
	}
}

func TestWriteRejectsMissingTitle(t *testing.T) {
	backend := storage.NewMemory()
	app := setupTestApp(t, SiteConfig{}, backend)

	req := writeRequest(t, "/board/notices/write/", map[string]string{
		"title":   "   ",
		"content": "내용",
	}, testFile{"images", "a.png", pngBytes(t, 10, 10)})
	rec := serve(app, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgValidation) {
		t.Errorf("validation message missing")
	}
	if !strings.Contains(rec.Body.String(), "내용") {
		t.Errorf("form does not keep the submitted content")
	}
	if _, ok, _ := backend.Get(context.Background(), board.DefaultKey); ok {
		t.Errorf("posts slot written for an invalid submission")
	}
}

func TestWriteReportsUndecodableImage(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)

	req := writeRequest(t, "/board/notices/write/", map[string]string{
		"title":   "제목",
		"content": "내용",
	},
		testFile{"images", "bad.png", []byte("definitely not an image")},
		testFile{"images", "good.png", pngBytes(t, 10, 10)},
	)
	rec := serve(app, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "이미지를 처리할 수 없습니다: bad.png") {
		t.Errorf("per-file message missing: %s", body)
	}
	if strings.Contains(body, "good.png") {
		t.Errorf("decodable image reported as a failure")
	}
	if n := len(app.Board.All()); n != 0 {
		t.Errorf("posts = %d, want 0", n)
	}
}

func TestWriteQuotaExceeded(t *testing.T) {
	backend := storage.Limit(storage.NewMemory(), 512)
	app := setupTestApp(t, SiteConfig{}, backend)

	req := writeRequest(t, "/board/donations/write/", map[string]string{
		"title":   "후원 감사",
		"content": strings.Repeat("감사합니다 ", 100),
	})
	rec := serve(app, req)
	if rec.Code != http.StatusInsufficientStorage {
		t.Fatalf("status = %d, want 507", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "브라우저 저장 공간이 부족합니다.") {
		t.Errorf("quota message missing")
	}
	if n := len(app.Board.All()); n != 0 {
		t.Errorf("posts = %d after quota failure, want 0", n)
	}
}

func TestWriteRejectsLargeAttachment(t *testing.T) {
	app := setupTestApp(t, SiteConfig{AttachmentLimit: 16}, nil)

	req := writeRequest(t, "/board/notices/write/", map[string]string{
		"title":   "제목",
		"content": "내용",
	}, testFile{"file", "big.bin", bytes.Repeat([]byte{1}, 64)})
	rec := serve(app, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "파일 용량이 너무 큽니다. (최대 16 B)") {
		t.Errorf("attachment message missing: %s", rec.Body.String())
	}
}

func TestAttachmentTooLargeMessage(t *testing.T) {
	tests := []struct {
		limit int64
		want  string
	}{
		{2 << 20, "파일 용량이 너무 큽니다. (최대 2MB)"},
		{10 << 20, "파일 용량이 너무 큽니다. (최대 10MB)"},
		{1536 << 10, "파일 용량이 너무 큽니다. (최대 1.5 MiB)"},
	}
	for _, tt := range tests {
		if got := attachmentTooLarge(tt.limit).Message; got != tt.want {
			t.Errorf("attachmentTooLarge(%d) = %q, want %q", tt.limit, got, tt.want)
		}
	}
}

func TestWriteRejectsImageOverPixelLimit(t *testing.T) {
	app := setupTestApp(t, SiteConfig{ImageMaxPixels: 50}, nil)

	req := writeRequest(t, "/board/notices/write/", map[string]string{
		"title":   "제목",
		"content": "내용",
	}, testFile{"images", "wide.png", pngBytes(t, 10, 10)})
	rec := serve(app, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "이미지를 처리할 수 없습니다: wide.png") {
		t.Errorf("per-file message missing: %s", rec.Body.String())
	}
	if n := len(app.Board.All()); n != 0 {
		t.Errorf("posts = %d, want 0", n)
	}
}

func TestWriteIsRateLimited(t *testing.T) {
	app := setupTestApp(t, SiteConfig{WriteLimit: 1}, nil)
	fields := map[string]string{"title": "제목", "content": "내용"}

	if rec := serve(app, writeRequest(t, "/board/notices/write/", fields)); rec.Code != http.StatusSeeOther {
		t.Fatalf("first post: status = %d, want 303", rec.Code)
	}
	if rec := serve(app, writeRequest(t, "/board/notices/write/", fields)); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second post: status = %d, want 429", rec.Code)
	}
}

func TestWriteRequiresCSRFToken(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)

	values := url.Values{"title": {"제목"}, "content": {"내용"}}
	req := httptest.NewRequest(http.MethodPost, "/board/notices/write/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(app, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if n := len(app.Board.All()); n != 0 {
		t.Errorf("posts = %d, want 0", n)
	}
}

func TestPostViewAndDelete(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)
	p := addTestPost(t, app, board.Notices, "봉사자 모집")
	path := "/board/notices/" + p.ID + "/"

	rec := serve(app, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "봉사자 모집") {
		t.Errorf("view does not show the title")
	}

	wrong := serve(app, httptest.NewRequest(http.MethodGet, "/board/projects/"+p.ID+"/", nil))
	if wrong.Code != http.StatusMovedPermanently || wrong.Header().Get("Location") != path {
		t.Errorf("wrong board: status = %d Location = %q", wrong.Code, wrong.Header().Get("Location"))
	}

	del := serve(app, formRequest(path+"delete/", nil))
	if del.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want 303", del.Code)
	}
	if n := len(app.Board.All()); n != 0 {
		t.Errorf("posts = %d after delete, want 0", n)
	}
	if rec := serve(app, httptest.NewRequest(http.MethodGet, path, nil)); rec.Code != http.StatusNotFound {
		t.Errorf("view after delete: status = %d, want 404", rec.Code)
	}
}

func TestDeleteMissingPostFlashes(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)
	addTestPost(t, app, board.Notices, "남는 글")

	rec := serve(app, formRequest("/board/notices/nope/delete/", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/board/notices/" {
		t.Fatalf("status = %d Location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if n := len(app.Board.All()); n != 1 {
		t.Errorf("posts = %d, want 1", n)
	}
	list := serve(app, httptest.NewRequest(http.MethodGet, "/board/notices/", nil), cookieNamed(rec, sessionName))
	if !strings.Contains(list.Body.String(), msgPostNotFound) {
		t.Errorf("not-found flash missing")
	}
}

func TestBoardSearch(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)
	addTestPost(t, app, board.Notices, "여름 캠프")
	addTestPost(t, app, board.Notices, "겨울 김장")

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/board/notices/?q="+url.QueryEscape("캠프"), nil))
	body := rec.Body.String()
	if !strings.Contains(body, "여름 캠프") || strings.Contains(body, "겨울 김장") {
		t.Errorf("search did not filter the list")
	}
}

func TestAccountUpdate(t *testing.T) {
	backend := storage.NewMemory()
	app := setupTestApp(t, SiteConfig{}, backend)

	rec := serve(app, formRequest("/donation/account/", url.Values{
		"bankName":      {"신한은행"},
		"accountNumber": {"110-222-333444"},
		"accountHolder": {"꿈뜨레"},
	}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	got := app.Settings.Get()
	if got.BankName != "신한은행" || got.AccountNumber != "110-222-333444" || got.AccountHolder != "꿈뜨레" {
		t.Errorf("settings = %+v", got)
	}
	if _, ok, _ := backend.Get(context.Background(), app.Config.SettingsKey); !ok {
		t.Errorf("settings slot not written")
	}

	page := serve(app, httptest.NewRequest(http.MethodGet, "/donation/account/", nil), cookieNamed(rec, sessionName))
	body := page.Body.String()
	if !strings.Contains(body, "110-222-333444") || !strings.Contains(body, msgAccountSaved) {
		t.Errorf("account page does not show the update and flash")
	}

	edit := serve(app, httptest.NewRequest(http.MethodGet, "/donation/account/?edit=1", nil))
	if !strings.Contains(edit.Body.String(), `name="bankName"`) {
		t.Errorf("edit form not rendered")
	}
}

func TestAccountUpdateStoresFieldsVerbatim(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)

	rec := serve(app, formRequest("/donation/account/", url.Values{
		"bankName":      {" 신한은행 "},
		"accountNumber": {"110-222-333444 "},
		"accountHolder": {""},
	}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	want := settings.SiteSettings{BankName: " 신한은행 ", AccountNumber: "110-222-333444 ", AccountHolder: ""}
	if got := app.Settings.Get(); got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func TestAccountUpdateQuotaExceeded(t *testing.T) {
	backend := storage.Limit(storage.NewMemory(), 32)
	app := setupTestApp(t, SiteConfig{}, backend)
	before := app.Settings.Get()

	rec := serve(app, formRequest("/donation/account/", url.Values{
		"bankName":      {"신한은행"},
		"accountNumber": {"110-222-333444"},
		"accountHolder": {"꿈뜨레"},
	}))
	if rec.Code != http.StatusInsufficientStorage {
		t.Fatalf("status = %d, want 507", rec.Code)
	}
	if got := app.Settings.Get(); got != before {
		t.Errorf("settings changed to %+v after failed write", got)
	}
}

func TestFeedAndSitemapListPosts(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, nil)
	p := addTestPost(t, app, board.Donations, "후원의 밤")
	want := "https://kkumttre.example/board/donations/" + p.ID + "/"

	for _, path := range []string{"/feed.xml", "/sitemap.xml"} {
		rec := serve(app, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d", path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("GET %s does not link %s", path, want)
		}
	}
}

func TestHealthReportsUsage(t *testing.T) {
	app := setupTestApp(t, SiteConfig{}, storage.Limit(storage.NewMemory(), 1<<20))
	addTestPost(t, app, board.Notices, "상태")

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" || resp["posts"] != float64(1) || resp["quota"] != "1.0 MiB" {
		t.Errorf("health = %v", resp)
	}
}

func TestPostsSurviveRestart(t *testing.T) {
	backend := storage.NewMemory()
	first := setupTestApp(t, SiteConfig{}, backend)
	p := addTestPost(t, first, board.Projects, "다시 열어도 남는 글")

	second := setupTestApp(t, SiteConfig{}, backend)
	got, err := second.Board.Get(p.ID)
	if err != nil {
		t.Fatalf("Get after restart: %v", err)
	}
	if got.Title != p.Title || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("post after restart = %+v, want %+v", got, p)
	}
}
