package colocation

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// unusable is the sentinel "only_positive" mode uses to
// mark a node as having received a negative intermediate score without
// outright banning it: the caller remaps unusable nodes back to a
// non-negative score (NeutralizeUnusable) once traversal completes.
const unusable = score.Score(-score.Infinity + 1)

// NodeScores is a resource's working allowed-node table during a
// colocated-node-scores traversal, distinct from types.Resource's
// long-lived AllowedNodes so a rolled-back or cycle-broken traversal
// never corrupts committed state.
type NodeScores map[string]score.Score

// Options configures one traversal of ColocatedNodeScores.
type Options struct {
	OnlyPositive bool // clone placement: negative scores become "unusable" instead of banning
}

// ColocatedNodeScores walks the colocation graph outward from resource
// r, attenuating each hop's contribution by score/Infinity, and returns
// the accumulated per-node scores.
func ColocatedNodeScores(ws *cluster.WorkingSet, r *types.Resource, opts Options) NodeScores {
	result := make(NodeScores, len(r.AllowedNodes))
	for id, s := range r.AllowedNodes {
		result[id] = s
	}

	if r.Flags.Merging || r.Flags.UpdatingNodes {
		log.WithComponent("colocation").Debug().Str("resource", r.ID).Msg("breaking dependency loop")
		return result
	}

	r.Flags.Merging = true
	defer func() { r.Flags.Merging = false }()

	for _, colocationID := range r.WithThisColocations {
		c, ok := ws.Colocations[colocationID]
		if !ok {
			continue
		}
		dependent, ok := ws.Resource(c.DependentID)
		if !ok {
			continue
		}

		if c.IsAntiAffinity() && len(dependent.AllowedNodes) > 1 {
			// anti-colocation edges only propagate negative preferences
			// when the dependent is restricted to a single allowed node.
			continue
		}

		factor := float64(c.Score) / float64(score.Infinity)
		childScores := ColocatedNodeScores(ws, dependent, opts)

		for nodeID, childScore := range childScores {
			attenuated := score.Multiply(childScore, factor)
			if opts.OnlyPositive && attenuated < 0 {
				result[nodeID] = unusable
				continue
			}
			if current, ok := result[nodeID]; ok {
				result[nodeID] = score.Add(current, attenuated)
			} else {
				result[nodeID] = attenuated
			}
		}
	}

	return result
}

// NeutralizeUnusable maps every "unusable" sentinel value in scores back
// to zero, the final step for only_positive traversals once propagation
// has finished.
func NeutralizeUnusable(scores NodeScores) {
	for id, s := range scores {
		if s == unusable {
			scores[id] = 0
		}
	}
}
