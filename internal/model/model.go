// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"fmt"
)

// DerivativeSpec describes one generated variant of an original photo
type DerivativeSpec struct {
	Name        string // directory segment in the storage key
	Label       string // used in error messages
	TargetWidth int
	Quality     int
	Progressive bool
}

var (
	ThumbnailSpec = DerivativeSpec{Name: "thumb", Label: "Thumbnail", TargetWidth: 400, Quality: 80, Progressive: false}
	MediumSpec    = DerivativeSpec{Name: "medium", Label: "Medium", TargetWidth: 1200, Quality: 85, Progressive: true}
)

//---------------------

// SourceMetadata describes the decoded original after orientation correction.
// Format is the encoding of the input, not of the derivatives.
type SourceMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Derivatives holds both JPEG-encoded variants of a single source
type Derivatives struct {
	Thumbnail []byte
	Medium    []byte
	Metadata  SourceMetadata
}

type DerivativeURLs struct {
	ThumbnailURL string `json:"thumbnail_url"`
	MediumURL    string `json:"medium_url"`
}

type UploadOptions struct {
	ContentType string
	Upsert      bool
}

// DerivativeResponse - ответ HTTP-ручки генерации превью
type DerivativeResponse struct {
	Generated    bool   `json:"generated"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	MediumURL    string `json:"medium_url,omitempty"`
}

//--------------------

const ContentTypeJPEG = "image/jpeg"

// ------------------

var (
	ErrDecode        error = errors.New("source is not a decodable image")
	ErrEmptySource   error = fmt.Errorf("%w: empty source buffer", ErrDecode)
	ErrObjectExists  error = errors.New("object already exists")
	ErrEmptyBasePath error = errors.New("base_path is required")      // 400
	ErrEmptyImage    error = errors.New("image is required")          // 400
	ErrBadFilename   error = errors.New("incorrect filename provided") // 400
)

// UploadError is returned when storing one of the derivatives failed
type UploadError struct {
	Derivative string
	Err        error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %v", e.Derivative, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
