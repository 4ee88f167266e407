// Package signedurl is a client for the external signed-URL API that hands
// out presigned upload and download URLs for avatar images. The service
// never touches the image bytes; browsers upload and fetch them directly.
package signedurl
