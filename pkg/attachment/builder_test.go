package attachment_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rjcompany/nfmailer/pkg/attachment"
	"github.com/rjcompany/nfmailer/pkg/folder"
)

type brokenFile struct {
	name string
	err  error
}

func (f brokenFile) Name() string { return f.name }

func (f brokenFile) Open(context.Context) (io.ReadCloser, error) { return nil, f.err }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk error") }

type halfFile struct{ name string }

func (f halfFile) Name() string { return f.name }

func (f halfFile) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(strings.NewReader("abc"), failingReader{})), nil
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	files := []folder.File{
		folder.NewMemFile("nf 101.pdf", []byte("%PDF-1.4")),
		folder.NewMemFile("nf 101.xml", []byte("<nfe/>")),
		folder.NewMemFile("empty", nil),
	}

	atts, err := attachment.NewBuilder().Build(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, atts, 3)

	require.Equal(t, "nf 101.pdf", atts[0].Filename)
	require.Equal(t, "base64", atts[0].Encoding)
	require.Equal(t, "JVBERi0xLjQ=", atts[0].Content)
	require.Equal(t, "application/pdf", atts[0].ContentType)

	require.Equal(t, "nf 101.xml", atts[1].Filename)
	require.Equal(t, "", atts[2].Content)
	require.Equal(t, "application/octet-stream", atts[2].ContentType)

	data, err := atts[1].Bytes()
	require.NoError(t, err)
	require.Equal(t, "<nfe/>", string(data))
}

func TestBuilder_Build_Empty(t *testing.T) {
	t.Parallel()

	atts, err := attachment.NewBuilder().Build(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, atts)
}

func TestBuilder_Build_ReadErrors(t *testing.T) {
	t.Parallel()

	openErr := errors.New("permission denied")

	tests := []struct {
		name     string
		files    []folder.File
		opts     []attachment.Option
		wantFile string
		wantErr  error
	}{
		{
			name:     "open failure",
			files:    []folder.File{folder.NewMemFile("ok.pdf", []byte("x")), brokenFile{"bad.pdf", openErr}},
			wantFile: "bad.pdf",
			wantErr:  openErr,
		},
		{
			name:     "read failure mid file",
			files:    []folder.File{halfFile{"half.pdf"}},
			wantFile: "half.pdf",
		},
		{
			name:     "too large",
			files:    []folder.File{folder.NewMemFile("big.pdf", []byte("0123456789"))},
			opts:     []attachment.Option{attachment.WithMaxFileSize(5)},
			wantFile: "big.pdf",
			wantErr:  attachment.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			atts, err := attachment.NewBuilder(tt.opts...).Build(context.Background(), tt.files)
			require.Nil(t, atts, "no partial attachment list")
			require.ErrorIs(t, err, attachment.ErrRead)

			var re *attachment.ReadError
			require.ErrorAs(t, err, &re)
			require.Equal(t, tt.wantFile, re.Filename)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuilder_Build_MaxSizeExact(t *testing.T) {
	t.Parallel()

	atts, err := attachment.NewBuilder(attachment.WithMaxFileSize(3)).
		Build(context.Background(), []folder.File{folder.NewMemFile("a.txt", []byte("abc"))})
	require.NoError(t, err)
	require.Len(t, atts, 1)
}

func TestBuilder_Build_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := attachment.NewBuilder().Build(ctx, []folder.File{folder.NewMemFile("a.pdf", nil)})
	require.ErrorIs(t, err, attachment.ErrRead)
	require.ErrorIs(t, err, context.Canceled)
}

func TestContentType(t *testing.T) {
	t.Parallel()

	require.Equal(t, "application/pdf", attachment.ContentType("NF.PDF", nil))
	require.Equal(t, "image/png", attachment.ContentType("scan", []byte("\x89PNG\r\n\x1a\n0000")))
	require.Equal(t, "application/octet-stream", attachment.ContentType("noext", nil))
}
