// internal/app/system/upload/upload.go
//
// Package upload turns an uploaded receipt file into the embeddable
// data-URL representation the payment submission payload carries. The
// whole file is read at once (no chunking); the declared 10 MB limit is
// a display hint, not an enforced cap.
package upload

import (
	"encoding/base64"
	"io"
	"path"
	"strings"
)

// SizeHint is the advertised upload limit shown next to the picker.
const SizeHint = "PNG, JPG, PDF up to 10MB"

// Kind classifies a receipt for type-gated preview rendering: images
// render inline, PDFs get a placeholder with metadata only.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindPDF
)

// Encoded is the client-side representation of a selected file: the
// original name plus the data-URL encoding included in the payload.
type Encoded struct {
	Filename string
	DataURL  string
}

// Encode reads the file and produces its data-URL form. contentType may
// be blank, in which case it is guessed from the filename extension.
func Encode(filename, contentType string, r io.Reader) (Encoded, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Encoded{}, err
	}
	if contentType == "" {
		contentType = guessContentType(filename)
	}
	return Encoded{
		Filename: filename,
		DataURL:  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// Classify reports the preview kind for a content type or stored path.
func Classify(contentTypeOrPath string) Kind {
	s := strings.ToLower(contentTypeOrPath)
	switch {
	case strings.HasPrefix(s, "image/"):
		return KindImage
	case s == "application/pdf" || strings.HasSuffix(s, ".pdf") || strings.Contains(s, ".pdf"):
		return KindPDF
	case strings.HasSuffix(s, ".png"), strings.HasSuffix(s, ".jpg"),
		strings.HasSuffix(s, ".jpeg"), strings.HasSuffix(s, ".gif"),
		strings.HasPrefix(s, "data:image/"):
		return KindImage
	}
	return KindOther
}

func guessContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
