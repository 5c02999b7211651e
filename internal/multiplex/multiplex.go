// Package multiplex turns one extraction payload into zero or more typed
// document records, one per document type detected in the photo.
package multiplex

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/entity"
	"github.com/nbelhadj/registre-extractor/internal/llm"
	"github.com/nbelhadj/registre-extractor/internal/schema"
)

type Resolver struct {
	log *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{log: logger}
}

// Resolve builds one DocumentRecord per document type present with rows.
// Types never merge: a photo showing both layouts yields two records. A
// payload with no rows but a recognized reported type yields a single
// zero-row record of that type, so a typed (if empty) workbook can still be
// generated. No recognized type at all yields an empty slice, not an error;
// the orchestrator decides whether that warrants a fallback.
//
// The only error path is a schema lookup failure, which indicates an internal
// bug and is never absorbed.
func (r *Resolver) Resolve(photo entity.UploadedPhoto, payload llm.ExtractionPayload) ([]entity.DocumentRecord, error) {
	var records []entity.DocumentRecord

	for _, t := range constants.AllDocTypes() {
		rows := payload.Tables[t]
		if len(rows) == 0 {
			continue
		}
		rec, err := r.buildRecord(photo, payload, t, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		if t, ok := constants.ParseDocType(payload.ReportedType); ok {
			rec, err := r.buildRecord(photo, payload, t, nil)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	r.log.Info("multiplex.resolve",
		"photo", photo.Name,
		"reported_type", payload.ReportedType,
		"records", len(records),
	)
	return records, nil
}

func (r *Resolver) buildRecord(photo entity.UploadedPhoto, payload llm.ExtractionPayload, t constants.DocType, rows []llm.Row) (entity.DocumentRecord, error) {
	s, err := schema.Lookup(t)
	if err != nil {
		return entity.DocumentRecord{}, fmt.Errorf("resolve %s: %w", photo.Name, err)
	}

	rec := entity.DocumentRecord{
		PhotoName:       photo.Name,
		DocType:         t,
		RaisonSociale:   strings.TrimSpace(payload.RaisonSociale),
		MatriculeFiscal: strings.TrimSpace(payload.MatriculeFiscal),
		Rows:            make([]map[string]string, 0, len(rows)),
	}

	// The BIENS layout prints the year and the annual total once per block;
	// they apply to every row until the next block starts.
	carry := map[string]string{}
	carryCols := map[string]bool{}
	if t == constants.BiensImmobiliersAcheteur {
		carryCols["annee"] = true
		carryCols["total_annuel"] = true
	}

	for _, raw := range rows {
		row := make(map[string]string, len(s.Columns))
		for _, col := range s.Columns {
			v := constants.EmptyValue
			if rv, ok := raw[col]; ok {
				v = CoerceValue(rv, s.Numeric[col])
			}
			if carryCols[col] {
				if v != constants.EmptyValue {
					carry[col] = v
				} else {
					v = carry[col]
				}
			}
			row[col] = v
		}
		// Unknown columns from the model are dropped by construction: only
		// schema columns were copied.
		rec.Rows = append(rec.Rows, row)
	}
	return rec, nil
}

// CoerceValue converts an untyped model cell to text. Numeric columns get the
// same normalization as the original registry exports: spaces removed, comma
// decimal separator converted, whole floats collapsed to integers. Values that
// fail to coerce fall back to their trimmed text form rather than failing the
// record.
func CoerceValue(v any, numeric bool) string {
	var s string
	switch t := v.(type) {
	case nil:
		return constants.EmptyValue
	case string:
		s = strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}

	if s == "" {
		return constants.EmptyValue
	}
	if numeric {
		return NormalizeNumeric(s)
	}
	return s
}

// NormalizeNumeric removes grouping spaces and converts a comma decimal
// separator, returning the original string when the result is not a number.
func NormalizeNumeric(s string) string {
	cleaned := strings.ReplaceAll(s, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return s
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
