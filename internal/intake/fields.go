package intake

import (
	"net/url"

	"inspectionflow/internal/models"
)

// CollectFields extracts the fixed field set from the posted form. Every key
// in models.FieldKeys is present in the result; a missing field maps to the
// empty string so the rendered table always shows the full row set.
func CollectFields(form url.Values) models.Fields {
	fields := make(models.Fields, len(models.FieldKeys))
	for _, key := range models.FieldKeys {
		fields[key] = form.Get(key)
	}
	return fields
}
