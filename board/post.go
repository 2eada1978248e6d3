// Package board holds the site's posts: an in-memory list kept newest-first
// and mirrored, on every change, to one slot of the durable storage.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the fixed classification of a post.
type Category string

const (
	Projects  Category = "projects"
	Notices   Category = "notices"
	Donations Category = "donations"
)

// Categories lists every category in navigation order.
var Categories = []Category{Projects, Notices, Donations}

// DefaultAuthor is used when a post is submitted without an author.
const DefaultAuthor = "관리자"

// ParseCategory accepts the stored names and their singular forms.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "projects", "project":
		return Projects, true
	case "notices", "notice":
		return Notices, true
	case "donations", "donation", "donation-news":
		return Donations, true
	}
	return "", false
}

// Title returns the board heading shown to visitors.
func (c Category) Title() string {
	switch c {
	case Projects:
		return "주요사업"
	case Notices:
		return "공지사항"
	case Donations:
		return "후원소식"
	}
	return "게시판"
}

// Description returns the board's subtitle.
func (c Category) Description() string {
	if c == Donations {
		return "여러분의 소중한 후원금이 어떻게 쓰였는지 투명하게 알려드립니다."
	}
	return "꿈뜨레의 다양한 활동과 소식을 전해드립니다."
}

// Post is one board entry. Posts are never edited; they are created and
// eventually deleted as a whole.
type Post struct {
	ID        string
	Category  Category
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
	// Images holds JPEG data URLs; the first one is the cover.
	Images   []string
	FileName string
	FileData string
}

// Cover returns the primary image, or "" when the post has none.
func (p Post) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasFile reports whether the post carries an attachment.
func (p Post) HasFile() bool {
	return p.FileName != "" && p.FileData != ""
}

// Draft is what a visitor submits from the write form.
type Draft struct {
	Category Category
	Title    string
	Content  string
	Author   string
	Images   []string
	FileName string
	FileData string
}

// ValidationError lists the required fields missing from a Draft.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("board: missing %s", strings.Join(e.Fields, ", "))
}

// Validate checks the required fields of d.
func (d Draft) Validate() error {
	var missing []string
	if _, ok := ParseCategory(string(d.Category)); !ok {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// NewPost validates d and stamps it with a time-ordered id and creation time.
func NewPost(d Draft, now time.Time) (Post, error) {
	if err := d.Validate(); err != nil {
		return Post{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Post{}, fmt.Errorf("board: new id: %w", err)
	}
	author := strings.TrimSpace(d.Author)
	if author == "" {
		author = DefaultAuthor
	}
	cat, _ := ParseCategory(string(d.Category))
	p := Post{
		ID:        id.String(),
		Category:  cat,
		Title:     d.Title,
		Content:   d.Content,
		Author:    author,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		FileName:  d.FileName,
		FileData:  d.FileData,
	}
	if len(d.Images) > 0 {
		p.Images = append([]string(nil), d.Images...)
	}
	if p.FileData == "" {
		p.FileName = ""
	}
	return p, nil
}
