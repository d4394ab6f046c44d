// Package store defines the checkpoint persistence contract used by the
// workflow engine. Backends live in subpackages: memory for tests and
// single-process runs, sqlite for single-host durability, redis and postgres
// for shared deployments.
package store
