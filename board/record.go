package board

import (
	"encoding/json"
	"time"
)

// record is the stored form of a Post. Field names match the snapshots
// already sitting in storage, including ones written before imageUrls
// existed, so every optional field may be missing.
type record struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	CreatedAt int64    `json:"createdAt"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	FileName  string   `json:"fileName,omitempty"`
	FileData  string   `json:"fileData,omitempty"`
}

func toRecord(p Post) record {
	r := record{
		ID:        p.ID,
		Type:      string(p.Category),
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt.UnixMilli(),
		FileName:  p.FileName,
		FileData:  p.FileData,
	}
	if len(p.Images) > 0 {
		// imageUrl is still written for readers that predate imageUrls.
		r.ImageURL = p.Images[0]
		r.ImageURLs = p.Images
	}
	return r
}

// toPost migrates legacy records: a lone imageUrl becomes a one-element list.
func (r record) toPost() Post {
	p := Post{
		ID:        r.ID,
		Category:  Category(r.Type),
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		FileName:  r.FileName,
		FileData:  r.FileData,
	}
	if c, ok := ParseCategory(r.Type); ok {
		p.Category = c
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	switch {
	case len(r.ImageURLs) > 0:
		p.Images = r.ImageURLs
	case r.ImageURL != "":
		p.Images = []string{r.ImageURL}
	}
	return p
}

func encodePosts(posts []Post) ([]byte, error) {
	records := make([]record, len(posts))
	for i, p := range posts {
		records[i] = toRecord(p)
	}
	return json.Marshal(records)
}

func decodePosts(data []byte) ([]Post, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, r.toPost())
	}
	return posts, nil
}
