package intake

import (
	"encoding/base64"
	"strings"
)

// DecodeSignature decodes a data-URL signature ("data:image/png;base64,...")
// and stages it under fileName. Empty input, input without a comma, invalid
// base64, and storage failure all yield ok=false; none of them are errors a
// caller has to handle.
func (in *Intake) DecodeSignature(dataURL, fileName string) (string, bool) {
	if dataURL == "" {
		return "", false
	}
	_, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return "", false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		in.log.Warn("Signature payload is not valid base64.", "file", fileName, "error", err)
		return "", false
	}
	path, err := in.staging.SaveSignature(fileName, data)
	if err != nil {
		in.log.Warn("Failed to stage signature.", "file", fileName, "error", err)
		return "", false
	}
	return path, true
}
