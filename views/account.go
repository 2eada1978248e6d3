package views

import (
	"github.com/a-h/templ"

	"github.com/kkumttre/kkumttre/settings"
)

// Account is the donation page. When editing is true the account card is
// replaced by the edit form.
func Account(s settings.SiteSettings, editing bool, csrf string) templ.Component {
	return component(func(h *w) {
		h.raw(`<section class="banner"><h2>후원 계좌 안내</h2><p>보내주신 후원금은 아이들의 돌봄, 어르신 나눔, 그리고 따뜻한 공동체를 만드는 모든 활동에 투명하게 사용됩니다.</p></section>`)

		if editing {
			h.raw(`<form class="card account-edit" method="post" action="/donation/account/">`)
			csrfField(h, csrf)
			h.raw(`<label>은행명<input type="text" name="bankName" value="`)
			h.text(s.BankName)
			h.raw(`"></label><label>예금주<input type="text" name="accountHolder" value="`)
			h.text(s.AccountHolder)
			h.raw(`"></label><label>계좌번호<input type="text" name="accountNumber" value="`)
			h.text(s.AccountNumber)
			h.raw(`"></label><div class="actions"><a class="btn btn-muted" href="/donation/account/">취소</a><button class="btn" type="submit">저장</button></div></form>`)
		} else {
			h.raw(`<section class="card account"><p class="bank">`)
			h.text(s.BankName)
			h.raw(`</p><p class="holder">예금주 `)
			h.text(s.AccountHolder)
			h.raw(`</p><p class="number" id="account-number">`)
			h.text(s.AccountNumber)
			h.raw(`</p><button class="btn" type="button" data-copy="account-number" onclick="navigator.clipboard.writeText(document.getElementById(this.dataset.copy).textContent).then(function(){alert('계좌번호가 복사되었습니다.')})">계좌번호 복사</button>`)
			h.raw(`<a class="link-muted" href="/donation/account/?edit=1">계좌 정보 수정</a></section>`)
		}

		h.raw(`<div class="grid-2"><section class="card"><h3>정기 후원</h3><p>매월 정기적인 나눔을 통해 꿈뜨레의 지속 가능한 활동을 지원합니다. 아이들의 안정적인 돌봄 환경 조성에 큰 힘이 됩니다.</p></section>`)
		h.raw(`<section class="card"><h3>기부금 영수증</h3><p>꿈뜨레 지역공동체는 지정기부금 단체로서, 후원해주신 모든 금액에 대해 법정 기부금 영수증 발행이 가능합니다. (연말정산 혜택)</p></section></div>`)
	})
}
