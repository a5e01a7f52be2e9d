package repository

import "errors"

var (
	// ErrArtifactNotFound indicates the artifact is missing locally and no download source is configured
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrInvalidArtifactName indicates a name that would escape the model directory
	ErrInvalidArtifactName = errors.New("invalid model artifact name")
)
