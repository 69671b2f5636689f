// Package workerpool runs a user-supplied per-item function over a work
// list across N workers split into M batches, folding results through a
// caller-supplied reducer. Batch membership is decided by a deterministic,
// seed-keyed shuffle of the input order rather than a lock-stepped channel
// queue, so a given (items, seed, workers, batches) tuple always produces
// the same batch partition regardless of scheduler timing — the property
// the phase engine's cache-key fingerprinting depends on.
package workerpool
