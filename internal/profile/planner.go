package profile

import "sort"

// ExecutionPlan describes the resolved execution of a profile request:
// ordering, parallelizable groups, and a coarse duration estimate. The
// plan is advisory; the pipeline consults only the ordering.
type ExecutionPlan struct {
	Requested        []string   `json:"requested"`
	Expanded         []string   `json:"expanded"`
	Order            []string   `json:"execution_order"`
	CoreProfiles     []string   `json:"core_profiles"`
	AnalysisProfiles []string   `json:"analysis_profiles"`
	Groups           [][]string `json:"parallel_groups"`
	EstimatedTime    string     `json:"estimated_duration"`
	TotalProfiles    int        `json:"total_profiles"`
}

// Plan resolves a profile request into an ExecutionPlan. Profiles within a
// group have all dependencies satisfied by strictly earlier groups, so each
// group could run concurrently; concatenating the groups in order yields a
// valid topological ordering.
func Plan(requested []string) (*ExecutionPlan, error) {
	order, err := Resolve(requested)
	if err != nil {
		return nil, err
	}
	expanded, err := ExpandMeta(requested)
	if err != nil {
		return nil, err
	}

	var core, analysis []string
	for _, p := range order {
		if IsCore(p) {
			core = append(core, p)
		} else if !IsMeta(p) {
			analysis = append(analysis, p)
		}
	}

	var groups [][]string
	remaining := make(map[string]struct{}, len(order))
	satisfied := make(map[string]struct{}, len(order))
	for _, p := range order {
		remaining[p] = struct{}{}
	}

	for len(remaining) > 0 {
		var group []string
		for p := range remaining {
			ok := true
			for _, dep := range Dependencies(p) {
				if _, done := satisfied[dep]; !done {
					ok = false
					break
				}
			}
			if ok {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			// Cannot happen once Resolve succeeded; bail rather than spin.
			break
		}
		sort.Strings(group)
		for _, p := range group {
			satisfied[p] = struct{}{}
			delete(remaining, p)
		}
		groups = append(groups, group)
	}

	return &ExecutionPlan{
		Requested:        append([]string(nil), requested...),
		Expanded:         expanded,
		Order:            order,
		CoreProfiles:     core,
		AnalysisProfiles: analysis,
		Groups:           groups,
		EstimatedTime:    EstimateDuration(order),
		TotalProfiles:    len(order),
	}, nil
}
