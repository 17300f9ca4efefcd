// Package kv provides the in-process implementations of types.KVStore
// (memory and file) and Open, which builds any configured backend.
package kv
