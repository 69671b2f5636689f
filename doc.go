// Package icarus simulates congestion attacks against low-earth-orbit
// satellite mega-constellations.
//
// Given a Walker constellation, a ground population grid, and a routing
// policy, icarus computes one steady-state network snapshot — satellite
// positions, inter-satellite links, ground coverage, a sampled traffic
// matrix, and per-pair routing — then evaluates two attack classes against
// it:
//
//   - link floods: can a botnet saturate a single candidate edge, at what
//     cost (flows emitted) and detectability (peak added uplink bandwidth)?
//   - zone isolations: can a botnet sever all routed paths between two
//     geographic zones by flooding a small cut set of inter-satellite links?
//
// The pipeline is organized as a dependency-tracked phase graph (package
// phase) executed sequentially, with CPU-bound per-phase work fanned out
// across a batched worker pool (package workerpool). Subpackages:
//
//	core/       — thread-safe weighted/directed graph primitives
//	dijkstra/   — shortest-path search with a stretch cutoff
//	bfs/ dfs/   — traversal, cycle detection, topological sort
//	flow/       — max-flow (Dinic et al.), used to verify zone cuts
//	matrix/     — dense linear algebra for orbital rotation composition
//	geometry/   — constellation propagation, icosphere grid, coverage
//	routing/    — per-pair candidate path selection strategies
//	edges/      — inverts routed paths into per-edge indices
//	traffic/    — samples and allocates a traffic matrix under capacity
//	attack/     — link flood feasibility (LP) and detectability search
//	zone/       — zone pair sampling, cut-cover enumeration, attack eval
//	phase/      — the phase engine: dependency fingerprinting and caching
//	strategy/   — per-phase-key strategy registry
//	config/     — nested run configuration
//	store/      — cache-key-addressed artifact persistence
//	converterts/ — msgpack+zstd artifact codec
//
//	go get github.com/giacgiuliari/icarus-framework
package icarus
