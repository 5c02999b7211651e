// Package schema is the single point of truth for document layouts. New
// document types are added here without touching any other package.
package schema

import (
	"errors"
	"fmt"

	"github.com/nbelhadj/registre-extractor/constants"
)

// ErrUnknownDocumentType means a lookup was attempted for an identifier outside
// the fixed catalog. This indicates a misconfigured caller, not bad input, so
// it is never absorbed into a fallback artifact.
var ErrUnknownDocumentType = errors.New("unknown document type")

// DocumentTypeSchema describes one layout: the shared metadata block plus the
// type-specific ordered data columns.
type DocumentTypeSchema struct {
	Type    constants.DocType
	Columns []string
	// Numeric flags columns whose values get numeric normalization
	// (spaces stripped, comma decimal separator converted) before rendering.
	Numeric map[string]bool
}

// MetadataFields is the fixed 5-row block preceding the data table in every
// workbook, identical across document types.
var metadataFields = []string{
	"photo_name",
	"doc_type",
	"processed_at",
	"raison_sociale",
	"matricule_fiscal",
}

func MetadataFields() []string {
	out := make([]string, len(metadataFields))
	copy(out, metadataFields)
	return out
}

var actesColumns = []string{
	"annee", "ref_enregistrement", "date_enregistrement", "type_acte",
	"date_acte", "matricule_fiscal_societe", "raison_sociale_societe",
	"capital_societe", "forme_juridique", "apport_numeraire",
	"apport_nature", "apport_fonds_commerce", "apport_incorporation",
	"apport_creances", "apport_autres", "total_apports",
	"total_annuel", "total_general",
}

var actesNumeric = map[string]bool{
	"capital_societe": true, "apport_numeraire": true, "apport_nature": true,
	"apport_fonds_commerce": true, "apport_incorporation": true,
	"apport_creances": true, "apport_autres": true, "total_apports": true,
	"total_annuel": true, "total_general": true,
}

var biensColumns = []string{
	"annee", "ref_enregistrement", "date_enregistrement", "numero_quittance",
	"date_quittance", "type_acte", "nature_acte", "date_acte", "nbr_parts",
	"vendeur_matricule_fiscal", "vendeur_cin", "vendeur_nom",
	"numero_bien", "nature_et_adresse_bien", "recette_et_date_origine",
	"surface_bien", "montant_vente_bien", "total_annuel",
}

var biensNumeric = map[string]bool{
	"nbr_parts": true, "surface_bien": true,
	"montant_vente_bien": true, "total_annuel": true,
}

// Lookup returns the schema for a known document type. The returned value is a
// copy; callers cannot corrupt the catalog.
func Lookup(t constants.DocType) (DocumentTypeSchema, error) {
	switch t {
	case constants.ActesSocietes:
		return clone(t, actesColumns, actesNumeric), nil
	case constants.BiensImmobiliersAcheteur:
		return clone(t, biensColumns, biensNumeric), nil
	default:
		return DocumentTypeSchema{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}
}

// FallbackSchema is the shape used when a fallback artifact must be produced
// for a photo whose type never resolved. It mirrors the ACTES_SOCIETES layout,
// matching the original system's default.
func FallbackSchema() DocumentTypeSchema {
	s := clone(constants.DocTypeUnknown, actesColumns, actesNumeric)
	return s
}

func clone(t constants.DocType, cols []string, numeric map[string]bool) DocumentTypeSchema {
	c := make([]string, len(cols))
	copy(c, cols)
	n := make(map[string]bool, len(numeric))
	for k, v := range numeric {
		n[k] = v
	}
	return DocumentTypeSchema{Type: t, Columns: c, Numeric: n}
}
