package normalize

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/metarh/vagas/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNormalizer(summaryLimit int) *Normalizer {
	return NewNormalizer(NewSequenceGenerator("gen"), summaryLimit, discardLogger())
}

func decodeRecord(t *testing.T, payload string) *model.RawJobRecord {
	t.Helper()
	var r *model.RawJobRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("decoding %s: %v", payload, err)
	}
	return r
}

func TestNormalize_EndToEnd(t *testing.T) {
	r := decodeRecord(t, `{"id": 1, "title": "Vaga para Dev", "location": "Curitiba - PR", "description": "Build stuff", "requirements": "5yr exp"}`)
	got := newTestNormalizer(0).Normalize(r)
	if got == nil {
		t.Fatal("Normalize returned nil")
	}

	want := model.NormalizedJob{
		ID:          "1",
		Title:       "Dev",
		City:        "Curitiba",
		State:       "PR",
		Description: "Build stuff<br><br><h3><strong>Requisitos</strong></h3>5yr exp",
		Summary:     "Build stuff",
		Department:  "Geral",
		Remote:      false,
	}
	if *got != want {
		t.Errorf("Normalize()\n got  %+v\n want %+v", *got, want)
	}
}

func TestNormalize_NilRecord(t *testing.T) {
	if got := newTestNormalizer(0).Normalize(nil); got != nil {
		t.Errorf("Normalize(nil) = %+v, want nil", got)
	}
}

func TestNormalize_EmptyRecordIsTotal(t *testing.T) {
	got := newTestNormalizer(0).Normalize(&model.RawJobRecord{})
	if got == nil {
		t.Fatal("Normalize returned nil for an empty record")
	}
	if got.ID != "gen-1" {
		t.Errorf("ID = %q, want generated gen-1", got.ID)
	}
	if got.Title != "Vaga sem título" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Department != "Geral" || got.Description != "" || got.Summary != "" || got.City != "" || got.State != "" {
		t.Errorf("unexpected defaults: %+v", *got)
	}
}

func TestNormalize_Fallbacks(t *testing.T) {
	r := decodeRecord(t, `{
		"title": "Analista Remoto",
		"occupation": "Tecnologia",
		"contractType": "\"CLT\"",
		"created_at": "2024-02-01",
		"url": "https://example.com/apply"
	}`)
	got := newTestNormalizer(0).Normalize(r)

	if got.Department != "Tecnologia" {
		t.Errorf("Department = %q, want Tecnologia", got.Department)
	}
	if got.ContractType != "CLT" {
		t.Errorf("ContractType = %q, want CLT", got.ContractType)
	}
	if got.PublishedAt != "2024-02-01" {
		t.Errorf("PublishedAt = %q, want created_at fallback", got.PublishedAt)
	}
	if got.URLApply != "https://example.com/apply" {
		t.Errorf("URLApply = %q, want url fallback", got.URLApply)
	}
	if !got.Remote {
		t.Error("expected Remote for title containing Remoto")
	}
}

func TestNormalize_PreferredFields(t *testing.T) {
	r := decodeRecord(t, `{
		"actingArea": "Comercial",
		"occupation": "Vendas",
		"publicationDate": "2024-03-01",
		"created_at": "2023-01-01",
		"subscriptionUrl": "https://selecty/apply/1",
		"url": "https://selecty/1"
	}`)
	got := newTestNormalizer(0).Normalize(r)

	if got.Department != "Comercial" || got.PublishedAt != "2024-03-01" || got.URLApply != "https://selecty/apply/1" {
		t.Errorf("unexpected preferred fields: %+v", *got)
	}
}

func TestBuildDescription_SectionsInFixedOrder(t *testing.T) {
	r := &model.RawJobRecord{
		Description:   "Base",
		WorkSchedule:  "8h-17h",
		Benefits:      "VR",
		Qualification: "Inglês",
		Education:     "Superior",
		Requirements:  "Excel",
	}
	got := BuildDescription(r)

	labels := []string{"Requisitos", "Escolaridade", "Qualificações", "Benefícios", "Horário de Trabalho"}
	last := -1
	for _, label := range labels {
		heading := "<br><br><h3><strong>" + label + "</strong></h3>"
		i := strings.Index(got, heading)
		if i < 0 {
			t.Fatalf("missing section %q in %q", label, got)
		}
		if i < last {
			t.Errorf("section %q out of order in %q", label, got)
		}
		last = i
	}
	if !strings.HasPrefix(got, "Base<br><br>") {
		t.Errorf("description should start with base text: %q", got)
	}
}

func TestBuildDescription_OmitsEmptySections(t *testing.T) {
	tests := []struct {
		name   string
		record model.RawJobRecord
		want   string
	}{
		{
			name:   "no sections",
			record: model.RawJobRecord{Description: "Base"},
			want:   "Base",
		},
		{
			name:   "only benefits",
			record: model.RawJobRecord{Description: "Base", Benefits: "VR\nVT"},
			want:   "Base<br><br><h3><strong>Benefícios</strong></h3>VR<br />VT",
		},
		{
			name:   "sections without base",
			record: model.RawJobRecord{Education: "Médio", WorkSchedule: "Seg a Sex"},
			want:   "<br><br><h3><strong>Escolaridade</strong></h3>Médio<br><br><h3><strong>Horário de Trabalho</strong></h3>Seg a Sex",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildDescription(&tc.record); got != tc.want {
				t.Errorf("BuildDescription()\n got  %q\n want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize_SummaryFromRawDescription(t *testing.T) {
	r := &model.RawJobRecord{
		Description:  "<p>Vaga <b>incrível</b> para quem gosta de desafios</p>",
		Requirements: "Não aparece no resumo",
	}
	got := newTestNormalizer(0).Normalize(r)
	if got.Summary != "Vaga incrível para quem gosta de desafios" {
		t.Errorf("Summary = %q", got.Summary)
	}

	truncated := newTestNormalizer(4).Normalize(r)
	if truncated.Summary != "Vaga..." {
		t.Errorf("truncated Summary = %q, want Vaga...", truncated.Summary)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Vaga para Analista de Dados", want: "Analista de Dados"},
		{input: "VAGA PARA Motorista", want: "Motorista"},
		{input: "vaga para   Auxiliar", want: "Auxiliar"},
		{input: "Analista - Vaga para todos", want: "Analista - Vaga para todos"},
		{input: "", want: "Vaga sem título"},
	}
	for _, tc := range tests {
		if got := CleanTitle(tc.input); got != tc.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input     string
		wantCity  string
		wantState string
	}{
		{input: "São Paulo - SP", wantCity: "São Paulo", wantState: "SP"},
		{input: "Remote", wantCity: "Remote", wantState: ""},
		{input: "  Curitiba-PR ", wantCity: "Curitiba", wantState: "PR"},
		{input: "Campinas - SP - Brasil", wantCity: "Campinas", wantState: "SP"},
		{input: "", wantCity: "", wantState: ""},
	}
	for _, tc := range tests {
		city, state := ParseLocation(tc.input)
		if city != tc.wantCity || state != tc.wantState {
			t.Errorf("ParseLocation(%q) = (%q, %q), want (%q, %q)", tc.input, city, state, tc.wantCity, tc.wantState)
		}
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("Dev REMOTO", "") {
		t.Error("expected remote from title")
	}
	if !IsRemote("Dev", "Remoto - BR") {
		t.Error("expected remote from location")
	}
	if IsRemote("Dev", "Curitiba - PR") {
		t.Error("did not expect remote")
	}
}

func TestCleanContractType(t *testing.T) {
	if got := CleanContractType(`"PJ" 'Temporário'`); got != "PJ Temporário" {
		t.Errorf("CleanContractType = %q", got)
	}
}

func TestNormalizeAll_DropsNullAndUndecodable(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"id": "a", "title": "Um"}`),
		json.RawMessage(`null`),
		json.RawMessage(`7`),
		json.RawMessage(`{"title": "Sem id"}`),
	}
	jobs, dropped := newTestNormalizer(0).NormalizeAll(items)
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if jobs[0].ID != "a" || jobs[1].ID != "gen-1" {
		t.Errorf("ids = %q, %q; want a, gen-1", jobs[0].ID, jobs[1].ID)
	}
}

func TestSequenceGenerator_Deterministic(t *testing.T) {
	a, b := NewSequenceGenerator("x"), NewSequenceGenerator("x")
	for i := 0; i < 3; i++ {
		if a.NewID() != b.NewID() {
			t.Fatal("sequence generators diverged")
		}
	}
}

func TestUUIDGenerator_Unique(t *testing.T) {
	var g UUIDGenerator
	if g.NewID() == g.NewID() {
		t.Error("expected distinct ids")
	}
}
