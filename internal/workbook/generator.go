// Package workbook renders document records into XLSX artifacts with the
// fixed layout downstream consumers depend on: a 5-row metadata block, one
// header row, then data rows in schema column order.
package workbook

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/schema"
)

const (
	sheetName = "data"
	// Row 6 carries the column headers, rows 7+ the data.
	headerRow    = 6
	firstDataRow = 7

	timestampLayout = "2006-01-02 15:04:05"
	maxColWidth     = 50
)

type Generator struct {
	log *slog.Logger
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{log: logger}
}

// Render produces the workbook for one record. The generation timestamp is
// passed in so identical records render byte-identical content under a fixed
// clock. A record with zero rows still yields a valid workbook containing the
// metadata block and header.
func (g *Generator) Render(rec entity.DocumentRecord, at time.Time) (*entity.OutputArtifact, error) {
	s, err := g.schemaFor(rec)
	if err != nil {
		return nil, err
	}
	content, err := g.render(rec, s, at)
	if err != nil {
		return nil, err
	}
	g.log.Info("workbook.render.ok",
		"photo", rec.PhotoName,
		"doc_type", rec.DocType,
		"rows", len(rec.Rows),
	)
	return &entity.OutputArtifact{
		PhotoName: rec.PhotoName,
		DocType:   rec.DocType,
		Content:   content,
	}, nil
}

func (g *Generator) schemaFor(rec entity.DocumentRecord) (schema.DocumentTypeSchema, error) {
	s, err := schema.Lookup(rec.DocType)
	if err != nil {
		return schema.DocumentTypeSchema{}, fmt.Errorf("render %s: %w", rec.PhotoName, err)
	}
	return s, nil
}

func (g *Generator) render(rec entity.DocumentRecord, s schema.DocumentTypeSchema, at time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			g.log.Warn("workbook.close_error", "error", cerr)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	// Metadata block, rows 1..5: field name in column A, value in column B.
	meta := [][2]string{
		{"photo_name", rec.PhotoName},
		{"doc_type", string(rec.DocType)},
		{"processed_at", at.Format(timestampLayout)},
		{"raison_sociale", rec.RaisonSociale},
		{"matricule_fiscal", rec.MatriculeFiscal},
	}
	for i, kv := range meta {
		if err := setCell(f, 1, i+1, kv[0]); err != nil {
			return nil, err
		}
		if err := setCell(f, 2, i+1, kv[1]); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, col := range s.Columns {
		if err := setCell(f, i+1, headerRow, col); err != nil {
			return nil, err
		}
	}
	firstHeader, _ := excelize.CoordinatesToCellName(1, headerRow)
	lastHeader, _ := excelize.CoordinatesToCellName(len(s.Columns), headerRow)
	if err := f.SetCellStyle(sheetName, firstHeader, lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for ri, row := range rec.Rows {
		for ci, col := range s.Columns {
			if err := setCell(f, ci+1, firstDataRow+ri, row[col]); err != nil {
				return nil, err
			}
		}
	}

	if err := adjustWidths(f, rec, s); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, v string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, v)
}

// adjustWidths sizes each column to its longest value, capped. Content-derived
// widths keep the output deterministic for a given record.
func adjustWidths(f *excelize.File, rec entity.DocumentRecord, s schema.DocumentTypeSchema) error {
	for ci, col := range s.Columns {
		width := len(col)
		// Columns A and B also hold the metadata block.
		if ci == 0 && width < 16 {
			width = 16
		}
		if ci == 1 && width < 22 {
			width = 22
		}
		for _, row := range rec.Rows {
			if l := len(row[col]); l > width {
				width = l
			}
		}
		width += 2
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}
