// Package converters implements phase.Codec with msgpack serialization
// wrapped in zstd compression — the on-disk shape of every persisted
// phase artifact, per spec.md §6's "streaming compressed serialization."
package converters
