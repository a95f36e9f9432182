package service

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

const (
	// CertificateBucket is the default bucket for certificate uploads.
	CertificateBucket = "certificates"

	MaxCertificateSize = 5 << 20
)

var certificateExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ValidateCertificate checks size and type of f and returns the canonical
// content type and file extension. Both the declared type and the sniffed
// content must be one of the accepted types.
func ValidateCertificate(f model.CertificateFile) (string, string, error) {
	size := f.Size
	if int64(len(f.Data)) > size {
		size = int64(len(f.Data))
	}
	if size == 0 || len(f.Data) == 0 {
		return "", "", invalidFile("is empty")
	}
	if size > MaxCertificateSize {
		return "", "", invalidFile(fmt.Sprintf("exceeds the %d MB limit", MaxCertificateSize>>20))
	}

	declared, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return "", "", invalidFile("has no valid content type")
	}
	declared = strings.ToLower(declared)
	ext, ok := certificateExtensions[declared]
	if !ok {
		return "", "", invalidFile("must be a JPEG, PNG, WebP image or a PDF document")
	}

	if detected := mimetype.Detect(f.Data); !detected.Is(declared) {
		return "", "", invalidFile(fmt.Sprintf("content is %s, not %s", detected.String(), declared))
	}

	return declared, ext, nil
}

// certificatePath builds the object key for an upload by memberID.
func certificatePath(memberID uuid.UUID, fileName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	name := slug.Make(base)
	if name == "" || name == "." {
		name = "certificate"
	}
	return fmt.Sprintf("%s/%s-%s%s", memberID, uuid.NewString(), name, ext)
}
