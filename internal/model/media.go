package model

import "errors"

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024 // 5MB
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "avatars"
	AvatarExt          = ".jpg"
	AvatarCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// UploadResult represents the uploaded object location.
// URL is the public-facing URL; Key is the object key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignAvatarRequest requests a presigned URL for uploading an avatar
// directly to object storage.
type PresignAvatarRequest struct {
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"` // Optional but recommended for validation
}

// PresignAvatarResponse returns upload details for direct uploads.
// Client PUTs bytes to UploadURL, then saves PublicURL on the profile.
type PresignAvatarResponse struct {
	UploadURL  string `json:"uploadUrl"`
	PublicURL  string `json:"publicUrl"`
	Key        string `json:"key"`
	ExpiresInS int    `json:"expiresIn"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
