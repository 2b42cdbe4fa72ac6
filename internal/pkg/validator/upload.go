package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dataspeak/analysis-backend/internal/config"
	"github.com/dataspeak/analysis-backend/internal/entity"
)

var tabularExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
	".xls":  true,
}

var documentExtensions = map[string]bool{
	".pdf": true,
}

// Validator validates file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateTabularUpload checks a spreadsheet/CSV upload before decoding.
func (v *Validator) ValidateTabularUpload(fh *multipart.FileHeader) error {
	return v.validate(fh, tabularExtensions, "CSV, TSV, TXT, XLSX, XLS")
}

// ValidateDocumentUpload checks a document upload before text extraction.
func (v *Validator) ValidateDocumentUpload(fh *multipart.FileHeader) error {
	return v.validate(fh, documentExtensions, "PDF")
}

func (v *Validator) validate(fh *multipart.FileHeader, allowed map[string]bool, allowedList string) error {
	if fh == nil || fh.Filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return fmt.Errorf("%w: %s (allowed: %s)", entity.ErrUnsupportedFormat, ext, allowedList)
	}

	if fh.Size > v.cfg.MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", entity.ErrFileTooLarge, fh.Size, v.cfg.MaxUploadSize)
	}

	return nil
}
