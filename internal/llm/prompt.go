package llm

import "strings"

// BuildSystemPrompt returns the fixed system instruction for registry photos.
func BuildSystemPrompt() string {
	return "You are an expert document parser for Tunisian Ministry of Finance registry documents."
}

// BuildUserPrompt returns the fixed extraction instruction describing the two
// known layouts and the required JSON format. The instruction must stay in
// sync with BuildPayloadJSONSchema and the registry column lists.
func BuildUserPrompt() string {
	parts := []string{
		`This image contains financial registry data titled either:

- "Actes sur les Sociétés"
or
- "BIENS IMMOBILIERS (Qualité Acheteur)"

Return STRICT JSON ONLY.

First determine doc_type:
- ACTES_SOCIETES
- BIENS_IMMOBILIERS_ACHETEUR

Then extract the COMMON HEADER:

raison_sociale
matricule_fiscal`,

		`If doc_type == ACTES_SOCIETES, for each row/year extract:

annee
ref_enregistrement
date_enregistrement
type_acte
date_acte
matricule_fiscal_societe
raison_sociale_societe
capital_societe
forme_juridique
apport_numeraire
apport_nature
apport_fonds_commerce
apport_incorporation
apport_creances
apport_autres
total_apports
total_annuel
total_general

Return the array under key: actes_societes`,

		`If doc_type == BIENS_IMMOBILIERS_ACHETEUR:

This is a structured table where each horizontal line represents ONE property
transaction. The year header ("Année: 2010") applies to ALL rows until the
next year header. Vendor info and property info belong to the SAME row as the
transaction.

For EACH property row extract EXACTLY:

annee
ref_enregistrement
date_enregistrement
numero_quittance
date_quittance
type_acte
nature_acte
date_acte
nbr_parts
vendeur_matricule_fiscal
vendeur_cin
vendeur_nom
numero_bien
nature_et_adresse_bien        (FULL text, do not truncate)
recette_et_date_origine
surface_bien                  (numeric if visible)
montant_vente_bien            (capture exactly as printed)
total_annuel                  (from the year block total)

Return the array under key: biens_immobiliers`,

		`RULES:
1. Never merge multiple rows into one.
2. If a field is empty, return "".
3. If a document type is not present in the image, return an empty array for it.
4. If NEITHER layout is present, return empty arrays for both.

JSON FORMAT:

{
  "doc_type": "",
  "header": {
    "raison_sociale": "",
    "matricule_fiscal": ""
  },
  "actes_societes": [],
  "biens_immobiliers": []
}

No markdown. No explanations. Use empty string if a field is not found.`,
	}
	return strings.Join(parts, "\n\n---\n\n")
}
