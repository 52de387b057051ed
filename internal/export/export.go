package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	CSV  Format = "csv"
	TXT  Format = "txt"
	XLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, TXT, XLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case TXT:
		return "text/plain; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Filename(base string) string { return base + "." + string(f) }

func (f Format) delimiter() rune {
	if f == TXT {
		return '\t'
	}
	return ','
}

const sheetName = "Empresas"

// WriteCompanies grava a tabela: primeira linha com os rótulos, depois uma linha por empresa.
func WriteCompanies(w io.Writer, format Format, companies []models.Company, fields []Field) error {
	if format == XLSX {
		return writeXLSX(w, companies, fields)
	}
	cw := csv.NewWriter(w)
	cw.Comma = format.delimiter()

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range companies {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = f.Text(&companies[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, companies []models.Company, fields []Field) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for j, fl := range fields {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, fl.Label); err != nil {
			return err
		}
	}
	if len(fields) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(fields), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return err
		}
	}
	for i := range companies {
		for j, fl := range fields {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, fl.Raw(&companies[i])); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// Report: blocos de texto seguidos da tabela transposta
// (uma linha por campo, uma coluna por empresa).
type Report struct {
	Title       string
	GeneratedAt time.Time
	Companies   []models.Company // já ranqueadas; a primeira é a destaque
	Fields      []Field
}

func WriteReport(w io.Writer, format Format, r Report) error {
	if format == XLSX {
		return fmt.Errorf("%w: report as %s", ErrUnsupportedFormat, format)
	}
	cw := csv.NewWriter(w)
	cw.Comma = format.delimiter()

	title := r.Title
	if title == "" {
		title = "Relatório de Pipeline de Empresas"
	}
	lines := []string{
		title,
		"Gerado em: " + r.GeneratedAt.Format("02/01/2006 15:04"),
		fmt.Sprintf("Total de empresas: %d", len(r.Companies)),
	}
	if len(r.Companies) > 0 {
		top := &r.Companies[0]
		lines = append(lines, fmt.Sprintf("Melhor classificada: %s (score ponderado %s)",
			top.DisplayName(), utils.FormatDecimal(top.WeightedScore)))
	}
	for _, l := range lines {
		if err := cw.Write([]string{l}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{""}); err != nil {
		return err
	}

	header := make([]string, 0, len(r.Companies)+1)
	header = append(header, "Campo")
	for i := range r.Companies {
		header = append(header, r.Companies[i].DisplayName())
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, f := range r.Fields {
		row := make([]string, 0, len(r.Companies)+1)
		row = append(row, f.Label)
		for i := range r.Companies {
			row = append(row, f.Text(&r.Companies[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
