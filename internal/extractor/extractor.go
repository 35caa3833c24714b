// Package extractor turns uploaded documents into plain text.
package extractor

import (
	"errors"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatTXT         Format = "txt"
	FormatUnsupported Format = "unsupported"
)

// UnsupportedFormatMessage is the client-facing text for ErrUnsupportedFormat.
const UnsupportedFormatMessage = "Unsupported file format."

var ErrUnsupportedFormat = errors.New("unsupported file format")

// DetectFormat picks the format from the filename extension, ignoring case.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".txt":
		return FormatTXT
	default:
		return FormatUnsupported
	}
}

// Extract returns the text of data, dispatching on the extension of filename.
// An unknown extension yields ErrUnsupportedFormat. An empty result is not an
// error here; callers decide what blank text means.
func Extract(filename string, data []byte) (string, error) {
	switch DetectFormat(filename) {
	case FormatPDF:
		return ExtractPDF(data)
	case FormatDOCX:
		return ExtractDOCX(data)
	case FormatTXT:
		return ExtractTXT(data)
	default:
		return "", ErrUnsupportedFormat
	}
}

// SupportedExtensions lists the extensions Extract understands.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}
