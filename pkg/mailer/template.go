package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a markdown template split into frontmatter metadata and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// Subject returns the "Subject" frontmatter value, if any.
func (t *Template) Subject() string {
	s, _ := t.Metadata["Subject"].(string)
	return s
}

var frontmatterDelim = []byte("---")

// ParseTemplate splits optional YAML frontmatter from the markdown body.
// Content without a leading "---" is returned as body with empty metadata.
func ParseTemplate(content []byte) (*Template, error) {
	tpl := &Template{Metadata: make(map[string]any)}

	rest, ok := bytes.CutPrefix(content, frontmatterDelim)
	if !ok {
		tpl.Body = string(content)
		return tpl, nil
	}

	rest = bytes.TrimLeft(rest, "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	head, body, found := bytes.Cut(rest, frontmatterDelim)
	if !found {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	if !bytes.HasPrefix(body, []byte("\r\n")) {
		body, _ = bytes.CutPrefix(body, []byte("\n"))
	} else {
		body = body[2:]
	}
	tpl.Body = string(body)

	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &tpl.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return tpl, nil
}
