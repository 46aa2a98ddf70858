package intake

import (
	"fmt"
	"log/slog"
	"mime/multipart"

	"inspectionflow/internal/models"
)

// Intake stages uploaded images for one submission.
type Intake struct {
	staging *Staging
	log     *slog.Logger
}

// New returns an Intake writing into the given staging area.
func New(staging *Staging, log *slog.Logger) *Intake {
	return &Intake{staging: staging, log: log}
}

// CollectGroup stages every file in one upload group. Entries with an empty
// filename are skipped; a file that fails to stage is logged and omitted, in
// both cases the rest of the group is unaffected and order is preserved.
func (in *Intake) CollectGroup(files []*multipart.FileHeader, prefix string) []string {
	var paths []string
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		name := prefix + "_" + SanitizeFilename(fh.Filename)
		src, err := fh.Open()
		if err != nil {
			in.log.Warn("Skipping upload that could not be opened.", "file", fh.Filename, "error", err)
			continue
		}
		path, err := in.staging.SaveUpload(name, src)
		_ = src.Close()
		if err != nil {
			in.log.Warn("Skipping upload that could not be staged.", "file", fh.Filename, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// CollectDefectSequence gathers the numbered defect image groups
// (defectImages_0[], defectImages_1[], ...). Collection stops at the first
// index whose group is missing or holds only empty filenames; later indices
// are not probed, so clients must not leave gaps in the numbering.
func (in *Intake) CollectDefectSequence(form *multipart.Form) [][]string {
	var groups [][]string
	for i := 0; ; i++ {
		files := form.File[fmt.Sprintf("defectImages_%d[]", i)]
		if !hasNamedFile(files) {
			break
		}
		groups = append(groups, in.CollectGroup(files, fmt.Sprintf("defect_%d", i)))
	}
	return groups
}

// CollectCategories stages the seven fixed category image groups, keyed by
// form field. A category with no uploads maps to an empty slice.
func (in *Intake) CollectCategories(form *multipart.Form) map[string][]string {
	groups := make(map[string][]string, len(models.ImageCategories))
	for _, cat := range models.ImageCategories {
		groups[cat.FormField] = in.CollectGroup(form.File[cat.FormField], cat.Prefix)
	}
	return groups
}

// BuildDefects zips the defectType[]/minor[]/major[] lists with the staged
// image groups into defect records. Count lists shorter than the type list
// are padded with empty strings and reported as warnings rather than
// failing the submission.
func BuildDefects(types, minors, majors []string, imageGroups [][]string) ([]models.DefectRecord, []string) {
	var warnings []string
	if len(minors) < len(types) {
		warnings = append(warnings, fmt.Sprintf("minor count list has %d entries for %d defect types; padding with empty values", len(minors), len(types)))
	}
	if len(majors) < len(types) {
		warnings = append(warnings, fmt.Sprintf("major count list has %d entries for %d defect types; padding with empty values", len(majors), len(types)))
	}

	defects := make([]models.DefectRecord, 0, len(types))
	for i, t := range types {
		rec := models.DefectRecord{Type: t}
		if i < len(minors) {
			rec.MinorCount = minors[i]
		}
		if i < len(majors) {
			rec.MajorCount = majors[i]
		}
		if i < len(imageGroups) {
			rec.Images = imageGroups[i]
		}
		defects = append(defects, rec)
	}
	return defects, warnings
}

func hasNamedFile(files []*multipart.FileHeader) bool {
	for _, fh := range files {
		if fh != nil && fh.Filename != "" {
			return true
		}
	}
	return false
}
