package validation

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "go-pose-estimator/internal/errors"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateImageUpload rejects empty uploads and content that does not sniff as an image.
// Non-image content is reported as a decode error, the same class as a corrupt image.
func ValidateImageUpload(data []byte) error {
	if len(data) == 0 {
		return apperrors.NewValidationError("image file is empty", nil)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return apperrors.NewDecodeError("unsupported image type: "+mtype.String(), nil)
	}
	return nil
}

// ValidateJSONObject accepts only a single well-formed JSON object.
func ValidateJSONObject(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return apperrors.NewValidationError("request body is empty", nil)
	}
	if !json.Valid(trimmed) {
		return apperrors.NewValidationError("request body is not valid JSON", nil)
	}
	if trimmed[0] != '{' {
		return apperrors.NewValidationError("request body must be a JSON object", nil)
	}
	return nil
}
