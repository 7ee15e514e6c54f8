package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Resolver errors. Both surface before any network activity begins.
var (
	ErrUnknownProfile     = errors.New("unknown profile")
	ErrCircularDependency = errors.New("circular dependency detected")
)

// ExpandMeta recursively replaces meta profiles with their constituent
// profiles until no meta profile remains. The returned slice is sorted and
// contains each name at most once.
func ExpandMeta(requested []string) ([]string, error) {
	expanded := make(map[string]struct{})
	seen := make(map[string]struct{})

	var expand func(names []string) error
	expand = func(names []string) error {
		for _, name := range names {
			if !Known(name) {
				return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
			}
			if IsMeta(name) {
				// Meta profiles may nest other meta profiles; the seen set
				// guards against a registry edit introducing a loop.
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				if err := expand(Dependencies(name)); err != nil {
					return err
				}
				continue
			}
			expanded[name] = struct{}{}
		}
		return nil
	}

	if err := expand(requested); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(expanded))
	for name := range expanded {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Resolve expands meta profiles, collects the transitive dependency
// closure, and returns a topological ordering in which every profile
// appears after all of its dependencies (Kahn's algorithm).
//
// The registry is acyclic by construction, but a cycle introduced by a
// future registry edit is detected and reported rather than looping.
func Resolve(requested []string) ([]string, error) {
	base, err := ExpandMeta(requested)
	if err != nil {
		return nil, err
	}

	// Transitive closure under direct-dependency edges.
	all := make(map[string]struct{}, len(base))
	queue := append([]string(nil), base...)
	for _, p := range base {
		all[p] = struct{}{}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, dep := range Dependencies(p) {
			if !Known(dep) {
				return nil, fmt.Errorf("%w: %s (dependency of %s)", ErrUnknownProfile, dep, p)
			}
			if _, ok := all[dep]; !ok {
				all[dep] = struct{}{}
				queue = append(queue, dep)
			}
		}
	}

	// In-degree per node, edges dep -> dependent restricted to the closure.
	inDegree := make(map[string]int, len(all))
	dependents := make(map[string][]string, len(all))
	for p := range all {
		inDegree[p] = 0
	}
	for p := range all {
		for _, dep := range Dependencies(p) {
			if _, ok := all[dep]; ok {
				dependents[dep] = append(dependents[dep], p)
				inDegree[p]++
			}
		}
	}

	// Sorted ready queue keeps the output deterministic; only dependency
	// order is contractual.
	ready := make([]string, 0, len(all))
	for p, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, p)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(all))
	for len(ready) > 0 {
		p := ready[0]
		ready = ready[1:]
		order = append(order, p)

		next := dependents[p]
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(all) {
		stuck := make([]string, 0)
		placed := make(map[string]struct{}, len(order))
		for _, p := range order {
			placed[p] = struct{}{}
		}
		for p := range all {
			if _, ok := placed[p]; !ok {
				stuck = append(stuck, p)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: involving %s", ErrCircularDependency, strings.Join(stuck, ", "))
	}

	return order, nil
}

// ValidateCombination checks that a requested profile list is non-empty,
// refers only to known profiles, and resolves without cycles. Returns
// false with a descriptive message when invalid.
func ValidateCombination(requested []string) (bool, string) {
	if len(requested) == 0 {
		return false, "no profiles specified"
	}
	for _, name := range requested {
		if !Known(name) {
			return false, fmt.Sprintf("unknown profile: %s", name)
		}
	}
	if _, err := Resolve(requested); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// ParseList parses a comma-separated profile string, trimming whitespace
// and dropping empty entries.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
