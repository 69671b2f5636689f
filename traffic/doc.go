// Package traffic samples a ground-to-ground demand matrix weighted by
// population density, picks one routed candidate per sampled pair, and
// greedily commits it against per-edge bandwidth budgets (component F).
package traffic
