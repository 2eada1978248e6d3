package views

import (
	"github.com/a-h/templ"

	"github.com/kkumttre/kkumttre/board"
)

// Home shows the hero, the latest notices and the latest project photos.
func Home(notices, projects []board.Post) templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="hero"><h1>함께 돌보고, 함께 살아가는 지역</h1><p>아이와 어르신, 이웃이 함께 웃는 공동체를 꿈뜨레가 만들어 갑니다.</p>`)
		h.raw(`<div class="hero-actions"><a class="btn" href="/intro/greetings/">단체소개</a><a class="btn btn-accent" href="/donation/account/">후원하기</a></div></section>`)

		h.raw(`<div class="grid-2"><section class="card"><div class="card-head"><h2>공지사항</h2><a href="/board/notices/">더보기</a></div><ul class="post-lines">`)
		if len(notices) == 0 {
			h.raw(`<li class="muted">등록된 공지사항이 없습니다.</li>`)
		}
		for _, p := range notices {
			h.rawf(`<li><a href="%s">`, templ.EscapeString(postPath(p)))
			h.text(p.Title)
			h.raw(`</a><span class="muted">`)
			h.text(FormatDate(p.CreatedAt))
			h.raw(`</span></li>`)
		}
		h.raw(`</ul></section>`)

		h.raw(`<section class="card"><div class="card-head"><h2>주요사업</h2><a href="/board/projects/">더보기</a></div><div class="thumbs">`)
		if len(projects) == 0 {
			h.raw(`<p class="muted">등록된 사업 소식이 없습니다.</p>`)
		}
		for _, p := range projects {
			h.rawf(`<a class="thumb" href="%s">`, templ.EscapeString(postPath(p)))
			if cover := p.Cover(); cover != "" {
				h.rawf(`<img src="%s" alt="" loading="lazy">`, templ.EscapeString(DataURL(cover)))
			}
			h.raw(`<span>`)
			h.text(p.Title)
			h.raw(`</span></a>`)
		}
		h.raw(`</div></section></div>`)

		h.raw(`<section class="card"><h2>관련 사이트</h2><ul class="related">`)
		for _, s := range RelatedSites {
			h.rawf(`<li><a href="%s" target="_blank" rel="noopener noreferrer"><strong>`, templ.EscapeString(s.URL))
			h.text(s.Name)
			h.raw(`</strong><span class="muted">`)
			h.text(s.Description)
			h.raw(`</span></a></li>`)
		}
		h.raw(`</ul></section>`)
	})
}

// Greetings is the representative's welcome letter.
func Greetings() templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="banner"><h2>대표인사말</h2><p>"함께 돌보고, 함께 살아가는 지역을 꿈꾸며"</p></section><article class="card letter">`)
		for _, para := range greetingParagraphs {
			h.raw(`<p>`)
			h.text(para)
			h.raw(`</p>`)
		}
		h.raw(`<p class="signature">2025년 12월 20일<br><strong>대표 이 한 기</strong></p></article>`)
	})
}

// History lists the organisation's milestones, newest first.
func History() templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="banner"><h2>연혁</h2><p>꿈뜨레 지역공동체가 걸어온 길</p></section><ol class="card timeline">`)
		for _, ev := range historyEvents {
			h.raw(`<li><span class="year">`)
			h.text(ev.year)
			h.raw(`</span><ul>`)
			for _, item := range ev.items {
				h.raw(`<li>`)
				h.text(item)
				h.raw(`</li>`)
			}
			h.raw(`</ul></li>`)
		}
		h.raw(`</ol>`)
	})
}

var greetingParagraphs = []string{
	"안녕하십니까? 지역의 일상속에서 아이와 어르신, 이웃이 함께 웃을 수 있는 공동체를 꿈꾸며 한 걸음 한 걸음 걸어온 꿈뜨레 지역공동체가 여러분께 인사를 드립니다.",
	"늘 변함없는 관심과 응원으로 함께 해 주신 지역 주민 여러분께 깊은 감사를 드립니다. 꿈뜨레 지역공동체는 창원시 다함께돌봄센터 7호점을 운영하며, 아이들이 방과후에도 안전하고 따뜻한 돌봄 속에서 성장할 수 있도록 최선을 다하고 있습니다.",
	"2026년 1월부터는 창원시 다함께돌봄센터 3호점을 새롭게 운영하게 됩니다. 더 많은 아이들과 가정이 질높은 돌봄을 누릴 수 있도록 현장의 목소리에 더욱 귀 기울이겠습니다.",
	"꿈뜨레 지역공동체는 양성평등사업, 비영리민간단체공익활동지원사업을 통해 세대와 세대를 잇고, 존중과 배려가 살아 있는 공동체문화를 만들어가고 있습니다.",
	"앞으로도 돌봄이 필요한 곳에 따뜻한 손길을 내밀고, 아이가 안전하게 자라고, 어르신이 존중받으며, 이웃이 서로를 살피는 지속 가능한 지역사회를 향한 길을 흔들림 없이 걸어가겠습니다.",
}

var historyEvents = []struct {
	year  string
	items []string
}{
	{"2026 ~", []string{"창원시 다함께돌봄센터 3호점 위탁운영"}},
	{"2025 ~", []string{"창원시 비영리민간단체 공익활동 지원사업 단체선정"}},
	{"2024 ~", []string{"창원시 다함께돌봄센터 7호점 위탁운영"}},
	{"2023", []string{
		"비영리민간단체 변경등록(꿈뜨레 → 꿈뜨레지역공동체 / 11.08)",
		"단체명 변경 등록(삼계대동 작은도서관 → 꿈뜨레 / 05월)",
		"재미난 작은도서관 등록",
	}},
	{"2021 ~ 2023", []string{"우리마을 아이돌봄센터 운영"}},
	{"2019 ~", []string{"양성평등사업지원단체 선정"}},
	{"2018 ~ 2021", []string{"운영평가 우수도서관 선정", "공동체 활성화 단체 선정"}},
	{"2017", []string{"비영리단체 등록(마산세무서 / 01.12)", "경남 우수봉사단체 장려상 수상"}},
	{"2016", []string{"삼계대동 작은도서관 등록 (12.22)"}},
}
