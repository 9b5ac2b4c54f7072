package normalize

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/metarh/vagas/internal/model"
)

const (
	defaultTitle      = "Vaga sem título"
	defaultDepartment = "Geral"
)

var (
	titlePrefixRegex = regexp.MustCompile(`(?i)^Vaga para\s+`)
	quoteRegex       = regexp.MustCompile(`['"]+`)
)

// section is an optional labeled block appended to the description.
type section struct {
	label string
	value func(r *model.RawJobRecord) model.Field
}

// sections are appended in this order.
var sections = []section{
	{label: "Requisitos", value: func(r *model.RawJobRecord) model.Field { return r.Requirements }},
	{label: "Escolaridade", value: func(r *model.RawJobRecord) model.Field { return r.Education }},
	{label: "Qualificações", value: func(r *model.RawJobRecord) model.Field { return r.Qualification }},
	{label: "Benefícios", value: func(r *model.RawJobRecord) model.Field { return r.Benefits }},
	{label: "Horário de Trabalho", value: func(r *model.RawJobRecord) model.Field { return r.WorkSchedule }},
}

// Normalizer maps raw feed records onto NormalizedJob.
type Normalizer struct {
	ids          model.IDGenerator
	summaryLimit int
	logger       *slog.Logger
}

// NewNormalizer creates a normalizer. ids supplies identifiers for records
// without one; summaryLimit truncates summaries to that many runes, 0 keeps
// them whole.
func NewNormalizer(ids model.IDGenerator, summaryLimit int, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		ids:          ids,
		summaryLimit: summaryLimit,
		logger:       logger,
	}
}

// Normalize converts one record. It returns nil only for a nil record and
// never fails on missing fields.
func (n *Normalizer) Normalize(r *model.RawJobRecord) *model.NormalizedJob {
	if r == nil {
		return nil
	}

	id := r.ID.String()
	if id == "" {
		id = n.ids.NewID()
	}

	city, state := ParseLocation(r.Location.String())

	return &model.NormalizedJob{
		ID:           id,
		Title:        CleanTitle(r.Title.String()),
		Description:  BuildDescription(r),
		Summary:      Truncate(StripHTML(r.Description.String()), n.summaryLimit),
		City:         city,
		State:        state,
		Department:   r.ActingArea.Or(r.Occupation).Or(defaultDepartment).String(),
		ContractType: CleanContractType(r.ContractType.String()),
		PublishedAt:  r.PublicationDate.Or(r.CreatedAt).String(),
		URLApply:     r.SubscriptionURL.Or(r.URL).String(),
		Remote:       IsRemote(r.Title.String(), r.Location.String()),
	}
}

// NormalizeAll decodes and normalizes raw feed items in order. Null items and
// items that are not JSON objects are dropped; the second return value
// counts them.
func (n *Normalizer) NormalizeAll(items []json.RawMessage) ([]model.NormalizedJob, int) {
	jobs := make([]model.NormalizedJob, 0, len(items))
	dropped := 0
	for i, item := range items {
		var r *model.RawJobRecord
		if err := json.Unmarshal(item, &r); err != nil {
			n.logger.Debug("dropping undecodable record", "index", i, "error", err)
			dropped++
			continue
		}
		job := n.Normalize(r)
		if job == nil {
			n.logger.Debug("dropping empty record", "index", i)
			dropped++
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, dropped
}

// BuildDescription renders the base description followed by one labeled
// heading block for each non-empty section field.
func BuildDescription(r *model.RawJobRecord) string {
	var b strings.Builder
	b.WriteString(ProcessDescription(r.Description.String()))
	for _, s := range sections {
		v := s.value(r).String()
		if v == "" {
			continue
		}
		b.WriteString("<br><br><h3><strong>")
		b.WriteString(s.label)
		b.WriteString("</strong></h3>")
		b.WriteString(FormatPlainText(v))
	}
	return b.String()
}

// CleanTitle drops a leading "Vaga para " and substitutes a placeholder for
// an absent title.
func CleanTitle(title string) string {
	if title == "" {
		title = defaultTitle
	}
	return titlePrefixRegex.ReplaceAllString(title, "")
}

// ParseLocation splits "city - state" on '-'. The first segment is the city,
// the second the state; further segments are ignored.
func ParseLocation(location string) (city, state string) {
	if location == "" {
		return "", ""
	}
	parts := strings.Split(location, "-")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}

// CleanContractType removes quote characters.
func CleanContractType(s string) string {
	return quoteRegex.ReplaceAllString(s, "")
}

// IsRemote reports whether the title or location mentions "remoto".
func IsRemote(title, location string) bool {
	return strings.Contains(strings.ToLower(title), "remoto") ||
		strings.Contains(strings.ToLower(location), "remoto")
}
