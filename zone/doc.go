// Package zone implements the zone attack engine (component H): given a
// sampled pair of ground centers, it builds two disjoint k-nearest zones,
// concatenates every cross-zone routed path, enumerates candidate
// bottleneck cut sets via greedy set-cover with redundancy pruning, and
// evaluates each candidate with the link attack engine to pick the
// hardest-to-detect one.
package zone
