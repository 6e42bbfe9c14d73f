// Package gcs implements the object store port on Google Cloud Storage
// through the JSON API client in google.golang.org/api/storage/v1.
// Firebase Storage buckets are plain GCS buckets, so the same adapter
// serves both.
//
// Each Put is a single multipart request. There is no chunking, no
// resumable session and no retry; a failed request is reported as is.
package gcs
