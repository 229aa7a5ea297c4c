package personalize

import (
	"regexp"
	"strings"
)

// Template tokens.
const (
	TokenClientName     = "{cliente.nome}"
	TokenInvoiceNumbers = "{numeros_notas}"
)

// Defaults used when the operator leaves a field empty.
const (
	DefaultFallbackSubject = "Notas Fiscais - " + TokenClientName
	DefaultBody            = "Prezado(a) cliente,\n\nSegue em anexo as notas fiscais.\n\nAtenciosamente,\nEco Clean"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// Vars are the values substituted into a template.
type Vars struct {
	ClientName     string
	InvoiceNumbers string
}

// Render replaces every client name token, then every invoice numbers token.
func Render(template string, vars Vars) string {
	if !strings.Contains(template, "{") {
		return template
	}
	out := strings.ReplaceAll(template, TokenClientName, vars.ClientName)
	return strings.ReplaceAll(out, TokenInvoiceNumbers, vars.InvoiceNumbers)
}

// InvoiceNumbers extracts the first run of ASCII digits from each filename
// and joins them with ", ". Filenames without digits contribute nothing.
func InvoiceNumbers(filenames []string) string {
	numbers := make([]string, 0, len(filenames))
	for _, name := range filenames {
		if n := digitRun.FindString(name); n != "" {
			numbers = append(numbers, n)
		}
	}
	return strings.Join(numbers, ", ")
}

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// HTML converts line breaks in text to <br> tags.
func HTML(text string) string {
	return lineBreaks.Replace(text)
}

// Content is a personalised subject and body.
type Content struct {
	Subject string
	Text    string
	HTML    string
}

// Template is an editable subject and body pair.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// FallbackSubject is rendered when Subject personalises to an empty
	// string. Empty means DefaultFallbackSubject.
	FallbackSubject string `json:"-"`
}

// VarsFor derives the template variables for a folder.
func VarsFor(folderName string, filenames []string) Vars {
	return Vars{
		ClientName:     folderName,
		InvoiceNumbers: InvoiceNumbers(filenames),
	}
}

// Personalize renders subject and body for one folder.
func (t Template) Personalize(folderName string, filenames []string) Content {
	vars := VarsFor(folderName, filenames)

	subject := Render(t.Subject, vars)
	if strings.TrimSpace(subject) == "" {
		fallback := t.FallbackSubject
		if fallback == "" {
			fallback = DefaultFallbackSubject
		}
		subject = Render(fallback, vars)
	}

	text := Render(t.Body, vars)
	return Content{
		Subject: subject,
		Text:    text,
		HTML:    HTML(text),
	}
}
