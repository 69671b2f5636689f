// Package strategy implements the pluggable per-phase-key algorithm
// registry (component I): routing, traffic allocation, and cut-set
// selection each expose more than one algorithmic variant, and the run
// configuration picks one per phase by name rather than by editing code.
package strategy
