package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cleberrangel/jira-insights-api/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sprint"

// issueHeaderRow é a linha onde começa a tabela de issues
// (abaixo do bloco de resumo do sprint)
const issueHeaderRow = 10

// SprintReportExporter gera planilhas Excel com o relatório do sprint
type SprintReportExporter struct{}

// NewSprintReportExporter cria um novo exportador
func NewSprintReportExporter() *SprintReportExporter {
	return &SprintReportExporter{}
}

// SprintReport gera o insight do sprint e o relatório Excel correspondente
func (s *InsightsService) SprintReport(ctx context.Context, sprintID int) (*model.SprintInsight, *bytes.Buffer, error) {
	insight, issues, err := s.sprintData(ctx, sprintID)
	if err != nil {
		return nil, nil, err
	}

	buf, err := NewSprintReportExporter().Generate(insight, issues)
	if err != nil {
		return nil, nil, fmt.Errorf("gerar relatório: %w", err)
	}

	return insight, buf, nil
}

// Generate gera a planilha a partir do insight e das issues do sprint
func (e *SprintReportExporter) Generate(insight *model.SprintInsight, issues []model.Issue) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Renomeia a sheet padrão
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}

	if err := e.writeSummary(f, insight); err != nil {
		return nil, fmt.Errorf("escrever resumo: %w", err)
	}

	if err := e.writeIssues(f, issues); err != nil {
		return nil, fmt.Errorf("escrever issues: %w", err)
	}

	if err := e.setColumnWidths(f); err != nil {
		return nil, fmt.Errorf("ajustar colunas: %w", err)
	}

	// Escreve para buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return buf, nil
}

// writeSummary escreve o bloco de resumo do sprint
func (e *SprintReportExporter) writeSummary(f *excelize.File, insight *model.SprintInsight) error {
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return err
	}

	rows := [][2]interface{}{
		{"Sprint", insight.Name},
		{"Estado", insight.State},
		{"Planejadas", insight.Planned},
		{"Concluídas", insight.Completed},
		{"Carregadas", insight.CarriedOver},
		{"Bugs", insight.Bugs},
		{"Estimado", insight.TotalEstimate},
		{"Registrado", insight.TotalLogged},
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)

		if err := f.SetCellValue(sheetName, labelCell, row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueCell, row[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
	}

	return nil
}

// writeIssues escreve a tabela de issues do sprint
func (e *SprintReportExporter) writeIssues(f *excelize.File, issues []model.Issue) error {
	// Estilo do cabeçalho
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Estilo alternado para linhas
	styleOdd, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"F2F2F2"},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}

	headers := []string{"Issue", "Resumo", "Tipo", "Status", "Estimativa", "Registrado"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, issueHeaderRow)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, issue := range issues {
		row := issueHeaderRow + 1 + i

		values := []interface{}{
			issue.Key,
			issue.Fields.Summary,
			namedOr(issue.Fields.IssueType, ""),
			statusName(issue),
			model.FormatSeconds(estimateSeconds(issue)),
			model.FormatSeconds(clampSeconds(issue.Fields.TimeSpent)),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}

		if i%2 == 0 {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(sheetName, first, last, styleOdd); err != nil {
				return err
			}
		}
	}

	return nil
}

// setColumnWidths ajusta a largura das colunas
func (e *SprintReportExporter) setColumnWidths(f *excelize.File) error {
	widths := map[string]float64{
		"A": 16,
		"B": 48,
		"C": 14,
		"D": 16,
		"E": 14,
		"F": 14,
	}

	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	return nil
}
