// Package types defines the entity types, composite upsert descriptors,
// and standard error types for the Binder storage system.
package types
