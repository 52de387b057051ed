package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

func sample() []models.Company {
	return []models.Company{
		{
			CNPJ: "11.222.333/0001-81", RazaoSocial: "Alfa Sistemas", Setor: "Software",
			ARRFy24: 1500000, MargemEBITDA: 25.5, Score: 8, WeightedScore: 9.65,
			Socios: []models.Shareholder{{Nome: "Ana", Percentual: 60}, {Nome: "Bruno", Percentual: 40}},
		},
		{CNPJ: "45.372.391/0001-03", RazaoSocial: "Beta, Serviços", Setor: "Saúde", ARRFy24: 800000, Score: 6.5, WeightedScore: 7.1},
	}
}

func TestSelectFields(t *testing.T) {
	fs, err := SelectFields([]string{"razaoSocial", " cnpj ", ""})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(fs) != 2 || fs[0].Key != "razaoSocial" || fs[1].Key != "cnpj" {
		t.Fatalf("unexpected fields: %+v", fs)
	}

	if _, err := SelectFields([]string{"senha"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("want ErrUnknownField, got %v", err)
	}

	def, _ := SelectFields(nil)
	if len(def) != len(DefaultFieldKeys) {
		t.Fatalf("default selection: %d", len(def))
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": CSV, "CSV": CSV, "txt": TXT, " xlsx ": XLSX}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteCompanies_CSV(t *testing.T) {
	fs, _ := SelectFields([]string{"razaoSocial", "arrFy24", "socios"})
	var buf bytes.Buffer
	if err := WriteCompanies(&buf, CSV, sample(), fs); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Razão Social,ARR FY24,Sócios\n" +
		"Alfa Sistemas,1500000,Ana (60%); Bruno (40%)\n" +
		"\"Beta, Serviços\",800000,\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCompanies_TXTUsesTabs(t *testing.T) {
	fs, _ := SelectFields([]string{"cnpj", "margemEbitda"})
	var buf bytes.Buffer
	if err := WriteCompanies(&buf, TXT, sample()[:1], fs); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "CNPJ\tMargem EBITDA (%)\n11.222.333/0001-81\t25.5\n"
	if buf.String() != want {
		t.Fatalf("txt mismatch: %q", buf.String())
	}
}

func TestWriteCompanies_XLSX(t *testing.T) {
	fs, _ := SelectFields([]string{"razaoSocial", "score"})
	var buf bytes.Buffer
	if err := WriteCompanies(&buf, XLSX, sample(), fs); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Razão Social" || rows[1][0] != "Alfa Sistemas" || rows[2][1] != "6.5" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestWriteReport_Transposed(t *testing.T) {
	fs, _ := SelectFields([]string{"setor", "weightedScore"})
	var buf bytes.Buffer
	err := WriteReport(&buf, TXT, Report{
		GeneratedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Companies:   sample(),
		Fields:      fs,
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Relatório de Pipeline de Empresas",
		"Gerado em: 01/05/2024 10:30",
		"Total de empresas: 2",
		"Melhor classificada: Alfa Sistemas (score ponderado 9,65)",
		"",
		"Campo\tAlfa Sistemas\tBeta, Serviços",
		"Setor\tSoftware\tSaúde",
		"Score Ponderado\t9.65\t7.1",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteReport_RejectsXLSX(t *testing.T) {
	if err := WriteReport(&bytes.Buffer{}, XLSX, Report{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}
