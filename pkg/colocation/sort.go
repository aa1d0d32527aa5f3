package colocation

import (
	"sort"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// BuildLists populates every resource's ThisWithColocations and
// WithThisColocations, sorted in four-level order:
// 1. Colocation with higher-priority relevant resource first.
// 2. Higher-variant resource first (bundle > clone > group > primitive).
// 3. Between clones, promotable before non-promotable.
// 4. Tie-break on lexicographic resource id.
func BuildLists(ws *cluster.WorkingSet) {
	thisWith := make(map[string][]string)
	withThis := make(map[string][]string)

	for _, id := range sortedColocationIDs(ws) {
		c := ws.Colocations[id]
		thisWith[c.DependentID] = append(thisWith[c.DependentID], id)
		withThis[c.PrimaryID] = append(withThis[c.PrimaryID], id)
	}

	for resourceID, ids := range thisWith {
		r, ok := ws.Resource(resourceID)
		if !ok {
			continue
		}
		sortColocationIDs(ws, ids, func(c *types.Colocation) string { return c.PrimaryID })
		r.ThisWithColocations = ids
	}
	for resourceID, ids := range withThis {
		r, ok := ws.Resource(resourceID)
		if !ok {
			continue
		}
		sortColocationIDs(ws, ids, func(c *types.Colocation) string { return c.DependentID })
		r.WithThisColocations = ids
	}
}

func sortedColocationIDs(ws *cluster.WorkingSet) []string {
	ids := make([]string, 0, len(ws.Colocations))
	for id := range ws.Colocations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sortColocationIDs orders colocation ids by the relevance of the
// "other side" resource named by relevant(c) ordering.
func sortColocationIDs(ws *cluster.WorkingSet, ids []string, relevant func(*types.Colocation) string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci := ws.Colocations[ids[i]]
		cj := ws.Colocations[ids[j]]
		ri, riOK := ws.Resource(relevant(ci))
		rj, rjOK := ws.Resource(relevant(cj))

		if riOK != rjOK {
			return riOK // non-null beats null
		}
		if !riOK {
			return ids[i] < ids[j]
		}

		if ri.Priority != rj.Priority {
			return ri.Priority > rj.Priority
		}

		rankI, rankJ := types.VariantRank(ri.Variant), types.VariantRank(rj.Variant)
		if rankI != rankJ {
			return rankI > rankJ
		}

		if ri.Variant == types.VariantClone && rj.Variant == types.VariantClone && ri.Flags.Promotable != rj.Flags.Promotable {
			return ri.Flags.Promotable
		}

		return ri.ID < rj.ID
	})
}
