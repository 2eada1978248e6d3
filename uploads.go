package kkumttre

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/dustin/go-humanize"

	"github.com/kkumttre/kkumttre/ingest"
	"github.com/kkumttre/kkumttre/views"
)

// upload is what a write form carried besides its text fields.
type upload struct {
	Images   []string // JPEG data URLs, in selection order
	FileName string
	FileData string
}

// readUploads runs the selected images through the pipeline and encodes the
// attachment. Every failing file gets its own message; the returned upload
// holds whatever succeeded. A non-nil error is an internal failure.
func (a *App) readUploads(ctx context.Context, form *multipart.Form) (upload, []views.Flash, error) {
	var (
		up      upload
		flashes []views.Flash
	)
	if form == nil {
		return up, nil, nil
	}

	var files []ingest.File
	for _, fh := range form.File["images"] {
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		fh := fh
		files = append(files, ingest.File{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		})
	}
	for i, r := range a.Images.Images(ctx, files) {
		switch {
		case r.Err == nil:
			up.Images = append(up.Images, r.Image.DataURL)
		case errors.Is(r.Err, ingest.ErrDecode):
			flashes = append(flashes, views.Flash{
				Kind:    flashError,
				Message: fmt.Sprintf("이미지를 처리할 수 없습니다: %s", files[i].Name),
			})
		default:
			return up, flashes, r.Err
		}
	}

	if fhs := form.File["file"]; len(fhs) > 0 && fhs[0].Filename != "" {
		fh := fhs[0]
		if fh.Size > a.Config.AttachmentLimit {
			flashes = append(flashes, attachmentTooLarge(a.Config.AttachmentLimit))
			return up, flashes, nil
		}
		f, err := fh.Open()
		if err != nil {
			return up, flashes, fmt.Errorf("kkumttre: open attachment: %w", err)
		}
		defer f.Close()
		att, err := ingest.EncodeAttachment(fh.Filename, f, a.Config.AttachmentLimit)
		switch {
		case errors.Is(err, ingest.ErrAttachmentTooLarge):
			flashes = append(flashes, attachmentTooLarge(a.Config.AttachmentLimit))
		case err != nil:
			return up, flashes, err
		default:
			up.FileName = att.Name
			up.FileData = att.DataURL
		}
	}
	return up, flashes, nil
}

func attachmentTooLarge(limit int64) views.Flash {
	return views.Flash{
		Kind:    flashError,
		Message: fmt.Sprintf("파일 용량이 너무 큽니다. (최대 %s)", sizeLabel(limit)),
	}
}

// sizeLabel prints whole mebibyte limits as "2MB" and anything else in
// humanized IEC units.
func sizeLabel(limit int64) string {
	if limit > 0 && limit%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", limit>>20)
	}
	return humanize.IBytes(uint64(limit))
}
