// Package credential persists the bearer token and the cached identity.
//
// The two values live under fixed keys of a small key-value store and are
// always written and cleared together. Backends:
//
//   - FileKV: a 0600 JSON file, replaced atomically (default)
//   - RedisKV: two Redis keys written in one MULTI/EXEC
//   - MemoryKV: process memory, for tests and --no-persist runs
package credential
