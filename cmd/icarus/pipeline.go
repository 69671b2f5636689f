package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/giacgiuliari/icarus-framework/attack"
	"github.com/giacgiuliari/icarus-framework/core"
	"github.com/giacgiuliari/icarus-framework/edges"
	"github.com/giacgiuliari/icarus-framework/geometry"
	"github.com/giacgiuliari/icarus-framework/model"
	"github.com/giacgiuliari/icarus-framework/phase"
	"github.com/giacgiuliari/icarus-framework/routing"
	"github.com/giacgiuliari/icarus-framework/traffic"
	"github.com/giacgiuliari/icarus-framework/workerpool"
	"github.com/giacgiuliari/icarus-framework/zone"
)

// run is one parallel configuration run, flattened from config.Config.Run.
type run map[string]phaseParams

// buildEngine wires every implemented phase into one phase.Engine for a
// single run, per spec.md §3/§4: lsn and grid run independent of each
// other, cover depends on both, rout on cover, edges on rout, bw_asg on
// edges, atk_feas on bw_asg, zone_bneck on atk_feas.
func buildEngine(r run, cache phase.Cache, codec phase.Codec, log zerolog.Logger) *phase.Engine {
	e := phase.NewEngine(cache, codec)

	_ = e.Add(phase.Phase{
		Name:        "lsn",
		Description: fmt.Sprintf("lsn:%v", r["lsn"]),
		Outputs:     []string{"sat_pos", "isls", "isl_graph"},
		ReadCache:   true, WriteCache: true,
		Compute: func(_ []any) ([]any, error) {
			cfg := geometry.WalkerConfig{
				Orbits:       intParam(r["lsn"], "orbits", 6),
				SatsPerOrbit: intParam(r["lsn"], "sats_per_orbit", 20),
				AltitudeM:    floatParam(r["lsn"], "elevation", 550_000),
				InclinationD: floatParam(r["lsn"], "inclination", 53),
				PhaseFactor:  intParam(r["lsn"], "F", 1),
			}
			log.Info().Interface("cfg", cfg).Msg("propagating constellation")
			pos, isls, err := geometry.PropagateWalker(cfg)
			if err != nil {
				return nil, fmt.Errorf("lsn: %w", err)
			}
			g, err := geometry.BuildISLGraph(pos, isls)
			if err != nil {
				return nil, fmt.Errorf("lsn: %w", err)
			}
			return []any{pos, isls, g}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "grid",
		Description: fmt.Sprintf("grid:%v", r["grid"]),
		Outputs:     []string{"grid"},
		ReadCache:   true, WriteCache: true,
		Compute: func(_ []any) ([]any, error) {
			cfg := geometry.GridConfig{Repeats: intParam(r["grid"], "repeats", 2)}
			log.Info().Int("repeats", cfg.Repeats).Msg("building ground grid")
			grid, err := geometry.BuildGrid(cfg)
			if err != nil {
				return nil, fmt.Errorf("grid: %w", err)
			}
			return []any{grid}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "cover",
		Description: fmt.Sprintf("cover:%v", r["cover"]),
		Inputs:      []string{"grid", "sat_pos"},
		Outputs:     []string{"coverage"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			grid := in[0].(model.GridPos)
			sats := in[1].(model.SatPos)
			cfg := geometry.CoverConfig{MinElevationDeg: floatParam(r["cover"], "min_elev_angle", 25)}
			altitude := floatParam(r["lsn"], "elevation", 550_000)
			log.Info().Float64("min_elev", cfg.MinElevationDeg).Msg("building coverage")
			cov, err := geometry.BuildCoverage(grid, sats, altitude, cfg)
			if err != nil {
				return nil, fmt.Errorf("cover: %w", err)
			}
			return []any{cov}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "rout",
		Description: fmt.Sprintf("rout:%v", r["rout"]),
		Inputs:      []string{"isl_graph", "coverage", "grid"},
		Outputs:     []string{"path_data"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			g := in[0].(*core.Graph)
			cov := in[1].(model.Coverage)
			grid := in[2].(model.GridPos)
			pairs := samplePairs(grid, intParam(r["rout"], "num_pairs", 8))
			params := routing.Params{
				Variant: stringParam(r["rout"], "strategy", "single_shortest"),
				K:       intParam(r["rout"], "k", 3),
				Stretch: floatParam(r["rout"], "desirability_stretch", 1.5),
				Workers: 4, Batches: 2, Seed: 1,
			}
			log.Info().Str("variant", params.Variant).Int("pairs", len(pairs)).Msg("routing ground pairs")
			data, skipped, err := routing.Route(context.Background(), g, cov, grid, pairs, params)
			if err != nil {
				return nil, fmt.Errorf("rout: %w", err)
			}
			for _, s := range skipped {
				log.Warn().Err(s).Msg("pair skipped")
			}
			return []any{data}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "edges",
		Description: fmt.Sprintf("edges:%v", r["edges"]),
		Inputs:      []string{"path_data", "isls", "coverage", "grid"},
		Outputs:     []string{"edge_data", "isl_edges", "ground_edges"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			pd := in[0].(model.PathData)
			isls := in[1].([]model.IslInfo)
			cov := in[2].(model.Coverage)
			grid := in[3].(model.GridPos)
			required := edges.RequiredEdges(isls, cov)
			log.Info().Int("required_edges", len(required)).Msg("aggregating edge data")
			ed, err := edges.Aggregate(context.Background(), pd, required, grid, workerpool.Config{Workers: 4, Batches: 2, Seed: 1})
			if err != nil {
				return nil, fmt.Errorf("edges: %w", err)
			}
			islEdges, groundEdges := splitRequired(required)
			return []any{ed, islEdges, groundEdges}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "bw_asg",
		Description: fmt.Sprintf("bw_asg:%v", r["bw_asg"]),
		Inputs:      []string{"path_data", "grid", "isl_edges", "ground_edges"},
		Outputs:     []string{"bw_data"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			pd := in[0].(model.PathData)
			grid := in[1].(model.GridPos)
			islEdges := in[2].([]model.Edge)
			groundEdges := in[3].([]model.Edge)
			params := traffic.Params{
				Q:           intParam(r["bw_sel"], "sampled_quanta", 20),
				IslBw:       int64Param(r["bw_asg"], "isl_bw", 1000),
				UdlBw:       int64Param(r["bw_asg"], "udl_bw", 500),
				Utilisation: floatParam(r["bw_asg"], "utilisation", 0.7),
				Seed:        1,
			}
			log.Info().Int64("isl_bw", params.IslBw).Float64("utilisation", params.Utilisation).Msg("allocating traffic")
			bw, committed := traffic.Allocate(pd, grid, islEdges, groundEdges, params)
			log.Info().Int("committed", len(committed)).Msg("traffic allocation complete")
			return []any{bw}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "atk_feas",
		Description: fmt.Sprintf("atk_feas:%v", r["atk_feas"]),
		Inputs:      []string{"edge_data", "path_data", "bw_data", "isl_edges"},
		Outputs:     []string{"attack_data"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			ed := in[0].(model.EdgeData)
			pd := in[1].(model.PathData)
			bw := in[2].(model.BwData)
			islEdges := in[3].([]model.Edge)

			params := attack.Params{
				UplinkCapMax: int64Param(r["atk_optim"], "uplink_cap_max", 500),
				Rate:         floatParam(r["atk_feas"], "rate", 0.5),
				Solve:        attack.Feasible,
				Workers:      4, Batches: 2, Seed: 1,
			}
			log.Info().Int("targets", len(islEdges)).Msg("evaluating link attacks")
			data, err := attack.Batch(context.Background(), islEdges, ed, pd, bw, params)
			if err != nil {
				return nil, fmt.Errorf("atk_feas: %w", err)
			}
			log.Info().Int("congestible", len(data)).Msg("link attack evaluation complete")
			return []any{data}, nil
		},
	})

	_ = e.Add(phase.Phase{
		Name:        "zone_bneck",
		Description: fmt.Sprintf("zone_bneck:%v", r["zone_bneck"]),
		Inputs:      []string{"grid", "path_data", "attack_data", "bw_data", "edge_data"},
		Outputs:     []string{"zone_attacks"},
		ReadCache:   true, WriteCache: true,
		Compute: func(in []any) ([]any, error) {
			grid := in[0].(model.GridPos)
			pd := in[1].(model.PathData)
			atk := in[2].(model.AttackData)
			bw := in[3].(model.BwData)
			ed := in[4].(model.EdgeData)

			samples := intParam(r["zone_select"], "samples", 3)
			size := intParam(r["zone_build"], "size", 4)
			strat := zone.EdgeStrategy(stringParam(r["zone_edges"], "strategy", string(zone.StrategyISL)))

			centers := sampleCenters(grid, samples*2)
			var results []model.ZoneAttackInfo
			for i := 0; i+1 < len(centers); i += 2 {
				p := zone.Params{
					Size:         size,
					EdgeStrategy: strat,
					Attack: attack.Params{
						UplinkCapMax: int64Param(r["atk_optim"], "uplink_cap_max", 500),
						Rate:         floatParam(r["atk_feas"], "rate", 0.5),
						Solve:        attack.Feasible,
					},
				}
				info, err := zone.Evaluate(centers[i], centers[i+1], grid, pd, atk, bw, ed, p)
				if err != nil {
					log.Warn().Err(err).Int("c1", centers[i]).Int("c2", centers[i+1]).Msg("zone pair skipped")
					continue
				}
				results = append(results, *info)
			}
			log.Info().Int("zone_attacks_found", len(results)).Msg("zone attack enumeration complete")
			return []any{results}, nil
		},
	})

	return e
}

// samplePairs picks a small deterministic spread of ground pairs from
// grid's ids for routing, rather than the full O(n^2) set — enough to
// exercise the pipeline without rerouting every pair on every run.
func samplePairs(grid model.GridPos, n int) []model.GroundPair {
	ids := make([]int, 0, len(grid))
	for id := range grid {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	var pairs []model.GroundPair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pair, _ := model.NewGroundPair(ids[i], ids[j])
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

func sampleCenters(grid model.GridPos, n int) []int {
	ids := make([]int, 0, len(grid))
	for id := range grid {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func splitRequired(required []model.Edge) (isl, ground []model.Edge) {
	for _, e := range required {
		if e.IsUplinkStub() || e.IsDownlinkStub() {
			ground = append(ground, e)
		} else {
			isl = append(isl, e)
		}
	}
	return isl, ground
}
