// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ImageCompressor: Bounded-box resample, EXIF correction and encode
//   - Workspace: Local staging of captured, picked and compressed files
//   - ObjectStoreFactory / ObjectStore: The single vendor bucket SDK
//   - UploadStore: Upload history persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: User-facing notices. Without it, outcomes are only returned.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
