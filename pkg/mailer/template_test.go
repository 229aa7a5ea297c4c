package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantMeta map[string]any
		wantBody string
	}{
		{
			name:     "frontmatter",
			content:  "---\nSubject: Teste\nAuthor: Sistema\n---\n# Olá\n\nCorpo.\n",
			wantMeta: map[string]any{"Subject": "Teste", "Author": "Sistema"},
			wantBody: "# Olá\n\nCorpo.\n",
		},
		{
			name:     "no frontmatter",
			content:  "# Plain\n\nmarkdown",
			wantMeta: map[string]any{},
			wantBody: "# Plain\n\nmarkdown",
		},
		{
			name:     "empty frontmatter",
			content:  "---\n---\nBody content here.",
			wantMeta: map[string]any{},
			wantBody: "Body content here.",
		},
		{
			name:     "whitespace frontmatter",
			content:  "---\n\n---\nBody.",
			wantMeta: map[string]any{},
			wantBody: "Body.",
		},
		{
			name:     "windows line endings",
			content:  "---\r\nSubject: Win\r\n---\r\nBody",
			wantMeta: map[string]any{"Subject": "Win"},
			wantBody: "Body",
		},
		{
			name:     "empty body",
			content:  "---\nSubject: Only\n---\n",
			wantMeta: map[string]any{"Subject": "Only"},
			wantBody: "",
		},
		{
			name:     "numeric metadata",
			content:  "---\nPriority: 3\n---\nx",
			wantMeta: map[string]any{"Priority": 3},
			wantBody: "x",
		},
		{
			name:     "empty content",
			content:  "",
			wantMeta: map[string]any{},
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := ParseTemplate([]byte(tt.content))
			require.NoError(t, err)
			require.Equal(t, tt.wantMeta, tpl.Metadata)
			require.Equal(t, tt.wantBody, tpl.Body)
		})
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"missing closing delimiter", "---\nSubject: Test\nBody"},
		{"nothing after opening", "---\n"},
		{"invalid yaml", "---\nSubject: [unclosed\n---\nBody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := ParseTemplate([]byte(tt.content))
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
			require.Nil(t, tpl)
		})
	}
}

func TestTemplate_Subject(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Hi", (&Template{Metadata: map[string]any{"Subject": "Hi"}}).Subject())
	require.Empty(t, (&Template{Metadata: map[string]any{"Subject": 42}}).Subject())
	require.Empty(t, (&Template{}).Subject())
}
