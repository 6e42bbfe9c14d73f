// Package domain defines the core business entities for bucketdrop.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StagedFile: A local copy of a picked or captured file, ready to upload
//   - CompressionOptions: Bounded-box resample and encoder settings
//   - UploadRecord: The outcome of one upload attempt
//   - AppSettings: Storage, compression and staging configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
