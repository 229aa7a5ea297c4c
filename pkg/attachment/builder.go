package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

// Builder converts folder files into mailer attachments.
type Builder struct {
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxFileSize rejects files larger than n bytes. Zero means unlimited.
func WithMaxFileSize(n int64) Option {
	return func(b *Builder) {
		b.maxFileSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads and encodes every file in order.
func (b *Builder) Build(ctx context.Context, files []folder.File) ([]mailer.Attachment, error) {
	out := make([]mailer.Attachment, 0, len(files))
	for _, f := range files {
		data, err := b.read(ctx, f)
		if err != nil {
			b.logger.DebugContext(ctx, "attachment read failed",
				slog.String("file", f.Name()),
				slog.String("error", err.Error()),
			)
			return nil, &ReadError{Filename: f.Name(), Err: err}
		}
		out = append(out, mailer.NewAttachment(f.Name(), ContentType(f.Name(), data), data))
	}
	return out, nil
}

func (b *Builder) read(ctx context.Context, f folder.File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := f.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if b.maxFileSize > 0 {
		r = io.LimitReader(rc, b.maxFileSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if b.maxFileSize > 0 && int64(len(data)) > b.maxFileSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, b.maxFileSize)
	}
	return data, nil
}

// ContentType guesses the MIME type from the extension, then from content.
func ContentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		return ct
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(data[:min(len(data), sniffLen)])
}
