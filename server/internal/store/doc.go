// Package store keeps recent evaluations in memory, keyed by evaluation ID,
// and evicts them once they are older than a TTL.
package store
