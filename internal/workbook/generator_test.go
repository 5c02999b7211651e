package workbook

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/schema"
)

var fixedTime = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func sampleRecord() entity.DocumentRecord {
	s, _ := schema.Lookup(constants.ActesSocietes)
	row := map[string]string{}
	for _, col := range s.Columns {
		row[col] = ""
	}
	row["annee"] = "2024"
	row["capital_societe"] = "10000"
	row["raison_sociale_societe"] = "STE GAMMA"
	return entity.DocumentRecord{
		PhotoName:       "acte_12.jpg",
		DocType:         constants.ActesSocietes,
		RaisonSociale:   "STE GAMMA",
		MatriculeFiscal: "555C",
		Rows:            []map[string]string{row},
	}
}

func openSheet(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	t.Cleanup(func() {
		if err := f.Close(); err != nil {
			t.Errorf("close workbook: %v", err)
		}
	})
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue("data", ref)
	if err != nil {
		t.Fatalf("get %s: %v", ref, err)
	}
	return v
}

func TestRender_Layout(t *testing.T) {
	g := NewGenerator(nil)
	art, err := g.Render(sampleRecord(), fixedTime)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if art.Fallback {
		t.Fatalf("regular render flagged as fallback")
	}
	f := openSheet(t, art.Content)

	if f.GetSheetName(0) != "data" {
		t.Fatalf("sheet name = %q", f.GetSheetName(0))
	}

	meta := map[string]string{
		"A1": "photo_name", "B1": "acte_12.jpg",
		"A2": "doc_type", "B2": "ACTES_SOCIETES",
		"A3": "processed_at", "B3": "2025-03-14 10:30:00",
		"A4": "raison_sociale", "B4": "STE GAMMA",
		"A5": "matricule_fiscal", "B5": "555C",
	}
	for ref, want := range meta {
		if got := cell(t, f, ref); got != want {
			t.Fatalf("%s = %q, want %q", ref, got, want)
		}
	}

	s, _ := schema.Lookup(constants.ActesSocietes)
	for i, col := range s.Columns {
		ref, _ := excelize.CoordinatesToCellName(i+1, 6)
		if got := cell(t, f, ref); got != col {
			t.Fatalf("header %s = %q, want %q", ref, got, col)
		}
	}

	if got := cell(t, f, "A7"); got != "2024" {
		t.Fatalf("A7 = %q, want 2024", got)
	}
	if got := cell(t, f, "H7"); got != "10000" {
		t.Fatalf("H7 = %q, want 10000", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	g := NewGenerator(nil)
	a, err := g.Render(sampleRecord(), fixedTime)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := g.Render(sampleRecord(), fixedTime)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a.Content, b.Content) {
		t.Fatalf("same record and clock produced different bytes")
	}
}

func TestRender_ZeroRows(t *testing.T) {
	g := NewGenerator(nil)
	rec := sampleRecord()
	rec.Rows = nil
	art, err := g.Render(rec, fixedTime)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	f := openSheet(t, art.Content)
	if got := cell(t, f, "A6"); got != "annee" {
		t.Fatalf("header row missing: A6 = %q", got)
	}
	if got := cell(t, f, "A7"); got != "" {
		t.Fatalf("unexpected data row: A7 = %q", got)
	}
}

func TestRender_UnknownTypeRejected(t *testing.T) {
	g := NewGenerator(nil)
	rec := sampleRecord()
	rec.DocType = "NOT_A_TYPE"
	if _, err := g.Render(rec, fixedTime); !errors.Is(err, schema.ErrUnknownDocumentType) {
		t.Fatalf("error = %v, want ErrUnknownDocumentType", err)
	}
}

func TestRenderFallback_KnownType(t *testing.T) {
	g := NewGenerator(nil)
	photo := entity.UploadedPhoto{Name: "biens_3.png", Ext: "png"}
	art, err := g.RenderFallback(photo, constants.BiensImmobiliersAcheteur, fixedTime)
	if err != nil {
		t.Fatalf("RenderFallback error: %v", err)
	}
	if !art.Fallback {
		t.Fatalf("fallback artifact not flagged")
	}
	f := openSheet(t, art.Content)
	if got := cell(t, f, "B2"); got != "BIENS_IMMOBILIERS_ACHETEUR" {
		t.Fatalf("B2 = %q", got)
	}
	if got := cell(t, f, "B4"); got != constants.Unavailable {
		t.Fatalf("B4 = %q, want %q", got, constants.Unavailable)
	}
	if got := cell(t, f, "B5"); got != constants.Unavailable {
		t.Fatalf("B5 = %q, want %q", got, constants.Unavailable)
	}
	if got := cell(t, f, "A7"); got != "" {
		t.Fatalf("fallback should have zero data rows, A7 = %q", got)
	}
}

func TestRenderFallback_UnresolvedType(t *testing.T) {
	g := NewGenerator(nil)
	photo := entity.UploadedPhoto{Name: "blob.jpg", Ext: "jpg"}
	art, err := g.RenderFallback(photo, constants.DocTypeUnknown, fixedTime)
	if err != nil {
		t.Fatalf("RenderFallback error: %v", err)
	}
	if art.DocType != constants.DocTypeUnknown {
		t.Fatalf("doc type = %s", art.DocType)
	}
	f := openSheet(t, art.Content)
	if got := cell(t, f, "B2"); got != "UNKNOWN" {
		t.Fatalf("B2 = %q, want UNKNOWN", got)
	}
	// Default layout comes from the registry fallback shape.
	if got := cell(t, f, "A6"); got != "annee" {
		t.Fatalf("A6 = %q, want annee", got)
	}
}
