// Package storage provides a content-addressed storage system with pluggable backends.
//
// The storage package offers a unified interface for storing and retrieving token
// metadata documents identified by SHA-256 hash across multiple storage backends:
//
//   - File system storage for local development and testing
//   - S3-compatible storage for cloud deployments
//   - IPFS storage for decentralized content
//
// # Storage URI Format
//
// Storage backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/ntt-registry/documents/
//   - s3://bucket-name/prefix/?region=us-west-2
//   - ipfs://ipfs.example.com:5001/
//
// # Content Addressing
//
// Documents are stored and retrieved using content addressing, where the
// content identifier is the SHA-256 hash of the data. Because the identifier
// is derived from the content itself, a fetched document can always be
// verified against the identifier it was requested by.
//
// # Usage Example
//
//	// Create a storage factory
//	factory := storage.NewFactory(logger)
//
//	// Create a backend from a location URI
//	location, err := interfaces.NewStorageBackendLocation("file:///var/lib/ntt-registry/")
//	if err != nil {
//	    log.Fatalf("Invalid storage location: %v", err)
//	}
//	backend, err := factory.StorageBackendFor(location)
//	if err != nil {
//	    log.Fatalf("Failed to create storage backend: %v", err)
//	}
//
// # Multi-Backend Example
//
//	// Create a multi-backend that replicates documents to every location
//	multiBackend, err := factory.CreateMultiBackend(locations)
package storage
