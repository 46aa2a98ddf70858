package report

import (
	"strings"

	"inspectionflow/internal/models"
)

// Plan is the section layout of one report, computed before any drawing
// happens so the structure can be inspected and tested without rendering.
type Plan struct {
	Title      string
	FieldRows  []FieldRow
	Defects    *DefectSection
	Categories []CategorySection
	Signatures []SignatureEntry
}

// FieldRow is one row of the header field table.
type FieldRow struct {
	Label string
	Value string
}

// DefectSection is the defect summary table plus the submitter-entered
// totals row.
type DefectSection struct {
	Rows   []models.DefectRecord
	Totals models.DefectTotals
}

// CategorySection is one titled page of category images.
type CategorySection struct {
	Title  string
	Images []string
}

// SignatureEntry is one labelled signature on the final page.
type SignatureEntry struct {
	Label string
	Path  string
}

// BuildPlan lays out the report for one submission. The section order is
// fixed: field table, defect summary (only when defects were submitted), one
// section per non-empty image category, then signatures. The signatures
// section is always present even when no role signed.
func BuildPlan(sub *models.Submission) *Plan {
	plan := &Plan{Title: "Final Inspection Report"}

	plan.FieldRows = make([]FieldRow, 0, len(models.FieldKeys))
	for _, key := range models.FieldKeys {
		plan.FieldRows = append(plan.FieldRows, FieldRow{
			Label: FieldLabel(key),
			Value: sub.Fields[key],
		})
	}

	if len(sub.Defects) > 0 {
		plan.Defects = &DefectSection{Rows: sub.Defects, Totals: sub.DefectTotals}
	}

	for _, cat := range models.ImageCategories {
		images := sub.ImageGroups[cat.FormField]
		if len(images) == 0 {
			continue
		}
		plan.Categories = append(plan.Categories, CategorySection{Title: cat.Title, Images: images})
	}

	for _, role := range models.SignerRoles {
		path, ok := sub.Signatures[role.FormField]
		if !ok || path == "" {
			continue
		}
		plan.Signatures = append(plan.Signatures, SignatureEntry{Label: role.Label, Path: path})
	}

	return plan
}

// FieldLabel derives the display label for a field key: underscores become
// spaces and each word is title-cased.
func FieldLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
