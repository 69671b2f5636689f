// Package edges folds a routed PathData into EdgeData: per-(u,v) traversal
// counts, path membership, and coverage-weighted centrality (component E).
// Aggregation is embarrassingly parallel over individual paths, so it runs
// across the Batched Worker Pool with an edge-keyed reducer.
package edges
