package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/kkumttre/kkumttre/board"
)

func boardPath(c board.Category) string {
	return "/board/" + string(c) + "/"
}

func postPath(p board.Post) string {
	return boardPath(p.Category) + PathEscape(p.ID) + "/"
}

func csrfField(h *w, token string) {
	h.rawf(`<input type="hidden" name="_csrf" value="%s">`, templ.EscapeString(token))
}

// BoardList is the table of posts in one category, with a title search.
func BoardList(c board.Category, posts []board.Post, query string) templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="board-head"><div><h2>`)
		h.text(c.Title())
		h.raw(`</h2><p class="muted">`)
		h.text(c.Description())
		h.rawf(`</p></div><a class="btn" href="%swrite/">글쓰기</a></section>`, templ.EscapeString(boardPath(c)))

		h.rawf(`<form class="search" method="get" action="%s"><input type="search" name="q" placeholder="검색어를 입력하세요..." value="`, templ.EscapeString(boardPath(c)))
		h.text(query)
		h.raw(`"><button type="submit">검색</button></form>`)

		h.raw(`<table class="card board"><thead><tr><th class="num">번호</th><th>제목</th><th>작성자</th><th>날짜</th></tr></thead><tbody>`)
		if len(posts) == 0 {
			h.raw(`<tr><td colspan="4" class="empty">등록된 게시글이 없습니다. 첫 글을 작성해보세요!</td></tr>`)
		}
		for i, p := range posts {
			h.raw(`<tr><td class="num">`)
			h.text(strconv.Itoa(len(posts) - i))
			h.rawf(`</td><td><a href="%s">`, templ.EscapeString(postPath(p)))
			h.text(p.Title)
			if len(p.Images) > 0 {
				h.raw(` <span class="badge">사진</span>`)
			}
			if p.HasFile() {
				h.raw(` <span class="badge">파일</span>`)
			}
			h.raw(`</a></td><td>`)
			h.text(p.Author)
			h.raw(`</td><td>`)
			h.text(FormatDate(p.CreatedAt))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// PostWrite is the submission form. maxFile is the attachment limit shown
// next to the file field.
func PostWrite(c board.Category, form WriteForm, csrf string, maxFile string) templ.Component {
	return component(func(h *w) {
		author := form.Author
		if author == "" {
			author = board.DefaultAuthor
		}
		h.raw(`<section class="banner"><h2>`)
		h.text(c.Title())
		h.rawf(` 글쓰기</h2></section><form class="card write" method="post" action="%swrite/" enctype="multipart/form-data">`, templ.EscapeString(boardPath(c)))
		csrfField(h, csrf)

		h.raw(`<label>제목<input type="text" name="title" required placeholder="제목을 입력하세요" value="`)
		h.text(form.Title)
		h.raw(`"></label><label>작성자<input type="text" name="author" required value="`)
		h.text(author)
		h.raw(`"></label><label>내용<textarea name="content" rows="12" required placeholder="내용을 입력하세요">`)
		h.text(form.Content)
		h.raw(`</textarea></label>`)

		h.raw(`<label>사진 여러장 첨부 <span class="muted">(첫 번째 사진이 대표 이미지가 됩니다)</span><input type="file" name="images" accept="image/*" multiple></label>`)
		h.raw(`<label>파일 첨부 <span class="muted">(최대 `)
		h.text(maxFile)
		h.raw(`)</span><input type="file" name="file"></label>`)

		h.rawf(`<div class="actions"><a class="btn btn-muted" href="%s">취소</a><button class="btn" type="submit">게시글 저장</button></div></form>`, templ.EscapeString(boardPath(c)))
	})
}

// PostView is the detail page of one post.
func PostView(p board.Post, csrf string) templ.Component {
	return component(func(h *w) {
		h.raw(`<article class="card post"><header><p class="crumb"><a href="`)
		h.text(boardPath(p.Category))
		h.raw(`">`)
		h.text(p.Category.Title())
		h.raw(`</a></p><h2>`)
		h.text(p.Title)
		h.raw(`</h2><p class="meta"><span>`)
		h.text(p.Author)
		h.raw(`</span><span>`)
		h.text(FormatDateTime(p.CreatedAt))
		h.raw(`</span></p></header><div class="post-body">`)
		h.component(Body(p.Content))
		h.raw(`</div>`)

		if len(p.Images) > 0 {
			h.raw(`<div class="gallery">`)
			for i, img := range p.Images {
				h.rawf(`<img src="%s" alt="%s" loading="lazy">`, templ.EscapeString(DataURL(img)), templ.EscapeString(p.Title+" 사진 "+strconv.Itoa(i+1)))
			}
			h.raw(`</div>`)
		}

		if p.HasFile() {
			h.raw(`<div class="attachment"><span>`)
			h.text(p.FileName)
			h.raw(`</span><span class="muted">`)
			h.text(DataURLSize(p.FileData))
			h.rawf(`</span><a class="btn" href="%s" download="%s">다운로드</a></div>`, templ.EscapeString(DataURL(p.FileData)), templ.EscapeString(p.FileName))
		}

		h.rawf(`<footer class="actions"><a class="btn btn-muted" href="%s">목록으로</a>`, templ.EscapeString(boardPath(p.Category)))
		h.rawf(`<form method="post" action="%sdelete/" onsubmit="return confirm('정말로 이 게시글을 삭제하시겠습니까?')">`, templ.EscapeString(postPath(p)))
		csrfField(h, csrf)
		h.raw(`<button class="btn btn-danger" type="submit">삭제</button></form></footer></article>`)
	})
}
