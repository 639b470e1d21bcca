// Package classdesk implements the module-membership and file-backed
// resource subsystem of an educational platform backend.
//
// A Module groups enrolled students (embedded snapshots, unique by student
// ID) and owns file-backed resources: exercises and study materials. Each
// resource is a metadata record in a Repository plus exactly one blob in a
// BlobStore. The Service sequences the dual-store writes; the two stores
// share no transaction, so partial failures surface as StorageError values
// for manual reconciliation.
//
// Construct a Service with New and the WithRepository / WithBlobStore
// options. Repository implementations live under repo/, blob store backends
// under storage/.
package classdesk
