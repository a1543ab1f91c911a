// Package memory provides in-process store implementations backed by
// maps. They are safe for concurrent use and intended for tests and
// single-node deployments that do not need durability.
package memory
