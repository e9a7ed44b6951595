package validation

import "fmt"

// MaxUploadBytes caps every upload at 5MB.
const MaxUploadBytes = 5 * 1024 * 1024

// UploadContext selects which MIME allowlist applies.
type UploadContext string

const (
	UploadImage    UploadContext = "image"    // avatars, farm photos
	UploadDocument UploadContext = "document" // CVs, certificates
)

var allowedMIMETypes = map[UploadContext][]string{
	UploadImage: {
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	},
	UploadDocument: {
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},
}

// ValidateFileUpload checks size and MIME type against the allowlist for
// the given context.
func ValidateFileUpload(sizeBytes int64, mimeType string, ctx UploadContext) FieldResult {
	if sizeBytes <= 0 {
		return invalid("A file is required")
	}
	if sizeBytes > MaxUploadBytes {
		return invalid("File size must be at most 5MB")
	}
	allowed, ok := allowedMIMETypes[ctx]
	if !ok {
		return invalid(fmt.Sprintf("Unknown upload context %q", ctx))
	}
	if !oneOf(mimeType, allowed) {
		return invalid(fmt.Sprintf("File type %s is not allowed", mimeType))
	}
	return valid()
}
