// Package attachment turns a folder's files into transport-ready, base64
// encoded attachments.
//
// Build reads every file completely and keeps input order. If any file
// cannot be read the whole folder fails with a *ReadError; a partial list is
// never returned.
//
//	b := attachment.NewBuilder(attachment.WithMaxFileSize(20 << 20))
//	atts, err := b.Build(ctx, f.Files)
//	if errors.Is(err, attachment.ErrRead) {
//		// record and skip this folder
//	}
package attachment
