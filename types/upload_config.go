package types

const (
	MAX_PHOTO_SIZE  = 10 * 1024 * 1024
	MAX_AVATAR_SIZE = 5 * 1024 * 1024
)

// Photo targets.
const (
	TargetVenue   = "venue"
	TargetMachine = "machine"
)

var photoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

func IsValidPhotoType(contentType string) bool {
	_, ok := photoContentTypes[contentType]
	return ok
}

func IsValidPhotoSize(size int64) bool {
	return size > 0 && size <= MAX_PHOTO_SIZE
}

// ExtensionForContentType is used when the client file name has no extension.
func ExtensionForContentType(contentType string) string {
	return photoContentTypes[contentType]
}
