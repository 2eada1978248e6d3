package views

// SiteConfig holds site-wide settings populated from configuration.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // site name (default "꿈뜨레 지역공동체")
	URL         string // canonical URL (default "http://localhost:3000")
	Description string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Flash is a one-shot message shown at the top of the next rendered page.
type Flash struct {
	Kind    string // "error" or "info"
	Message string
}

// Page is the per-request frame every full page is rendered into.
type Page struct {
	Site    SiteConfig
	Meta    PageMeta
	Path    string // request path, used to highlight the active menu
	CSRF    string
	Flashes []Flash
}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Name     string
	Path     string
	SubItems []NavItem
}

// Navigation is the site menu.
var Navigation = []NavItem{
	{
		Name: "단체소개",
		Path: "/intro",
		SubItems: []NavItem{
			{Name: "대표인사말", Path: "/intro/greetings/"},
			{Name: "연혁", Path: "/intro/history/"},
		},
	},
	{Name: "주요사업", Path: "/board/projects/"},
	{Name: "공지사항", Path: "/board/notices/"},
	{
		Name: "후원안내",
		Path: "/donation",
		SubItems: []NavItem{
			{Name: "계좌안내", Path: "/donation/account/"},
			{Name: "후원소식", Path: "/board/donations/"},
		},
	},
}

// RelatedSite is a link in the footer of the home page.
type RelatedSite struct {
	Name        string
	URL         string
	Description string
}

var RelatedSites = []RelatedSite{
	{Name: "국민권익위원회", URL: "https://www.acrc.go.kr", Description: "청렴한 사회, 국민의 권익보호"},
	{Name: "국세청", URL: "https://www.nts.go.kr", Description: "국민이 편안한, 보다 나은 국세행정"},
	{Name: "창원시청", URL: "https://www.changwon.go.kr", Description: "변화의 시작, 창원특례시"},
}

// WriteForm carries a submitted form back into the write page after a failure.
type WriteForm struct {
	Title   string
	Author  string
	Content string
}
