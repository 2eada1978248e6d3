package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultAttachmentLimit is the largest attachment accepted, in bytes.
const DefaultAttachmentLimit = 2 << 20

// ErrAttachmentTooLarge is returned when an attachment exceeds its limit.
var ErrAttachmentTooLarge = errors.New("ingest: attachment too large")

// Attachment is a generic file embedded in a post.
type Attachment struct {
	Name    string
	MIME    string
	Size    int
	DataURL string
}

// EncodeAttachment reads at most limit bytes from src and embeds them as a
// data URL with a sniffed MIME type.
func EncodeAttachment(name string, src io.Reader, limit int64) (Attachment, error) {
	if limit <= 0 {
		limit = DefaultAttachmentLimit
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("ingest: read attachment %q: %w", name, err)
	}
	if int64(len(data)) > limit {
		return Attachment{}, fmt.Errorf("%w: %q is over %s", ErrAttachmentTooLarge, name, humanize.IBytes(uint64(limit)))
	}
	// Parameters such as charset must not contain spaces inside a data URL.
	mime := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
	return Attachment{
		Name:    name,
		MIME:    mime,
		Size:    len(data),
		DataURL: DataURL(mime, data),
	}, nil
}
