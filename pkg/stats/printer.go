package stats

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLanguage is used when no or an unparsable language is given.
var DefaultLanguage = language.BrazilianPortuguese

type labels struct {
	title, total, emails, started, finished, rate, failures string
}

var catalog = map[language.Base]labels{
	mustBase("pt"): {
		title:    "Processo Concluído",
		total:    "Tempo Total",
		emails:   "Total de E-mails",
		started:  "Início",
		finished: "Término",
		rate:     "Taxa de Sucesso",
		failures: "Falhas",
	},
	mustBase("en"): {
		title:    "Run completed",
		total:    "Total time",
		emails:   "Total emails",
		started:  "Started",
		finished: "Finished",
		rate:     "Success rate",
		failures: "Failures",
	},
}

func mustBase(s string) language.Base {
	b, err := language.ParseBase(s)
	if err != nil {
		panic(err)
	}
	return b
}

var matcher = language.NewMatcher([]language.Tag{
	DefaultLanguage,
	language.Portuguese,
	language.AmericanEnglish,
	language.English,
})

// Negotiate picks a Printer from an Accept-Language header, falling back
// to fallback when nothing matches.
func Negotiate(acceptLanguage, fallback string) *Printer {
	if acceptLanguage == "" {
		return NewPrinter(fallback)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return NewPrinter(fallback)
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return NewPrinter(fallback)
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	return NewPrinter(base.String() + "-" + region.String())
}

// Language returns the printer's language tag.
func (p *Printer) Language() string {
	return p.tag.String()
}

// Printer renders Reports for one language.
type Printer struct {
	tag    language.Tag
	p      *message.Printer
	labels labels
}

// NewPrinter returns a Printer for lang (BCP 47, e.g. "pt-BR", "en").
// Unknown languages fall back to DefaultLanguage labels while keeping the
// requested number formatting when it parses.
func NewPrinter(lang string) *Printer {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = DefaultLanguage
	}

	base, _ := tag.Base()
	l, ok := catalog[base]
	if !ok {
		l = catalog[mustBase("pt")]
	}

	return &Printer{tag: tag, p: message.NewPrinter(tag), labels: l}
}

// Rate formats a percentage with one decimal place.
func (p *Printer) Rate(percent float64) string {
	return p.p.Sprintf("%v%%", number.Decimal(percent, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

// Format renders a multi-line summary.
func (p *Printer) Format(r Report) string {
	var b strings.Builder
	b.WriteString(p.labels.title + "\n")
	b.WriteString(p.p.Sprintf("%s: %s\n", p.labels.total, r.Duration()))
	b.WriteString(p.p.Sprintf("%s: %d\n", p.labels.emails, r.TotalEmails))
	b.WriteString(p.p.Sprintf("%s: %s\n", p.labels.started, r.StartedAt.Format("15:04:05")))
	b.WriteString(p.p.Sprintf("%s: %s\n", p.labels.finished, r.FinishedAt.Format("15:04:05")))
	b.WriteString(p.p.Sprintf("%s: %d\n", p.labels.failures, r.Errors))
	b.WriteString(p.p.Sprintf("%s: %s\n", p.labels.rate, p.Rate(r.SuccessRatePercent)))
	return b.String()
}
