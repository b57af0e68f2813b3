package models

import "time"

// PhotoUpload instructs the client to upload a profile photo using a
// presigned URL and then submit Key as the new photo reference.
type PhotoUpload struct {
	// Key is the object-storage key the photo must be uploaded to.
	Key string `json:"key"`
	// URL is a temporary presigned HTTP URL for the client to PUT the image.
	URL string `json:"url"`
	// ExpiresAt is when URL stops being accepted by the storage.
	ExpiresAt time.Time `json:"expiresAt"`
}
