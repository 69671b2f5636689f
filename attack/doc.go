// Package attack implements the link-flood engine (component G): for a
// target edge (or cut set), it synthesizes the set of attack directions
// that can congest it, poses a feasibility problem as a linear program
// solved via gonum's simplex solver, and binary-searches the minimum
// detectable per-uplink increase that still achieves congestion.
package attack
