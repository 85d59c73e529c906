package domain

import "sort"

// FilterSet holds the selectable filter values derived from a result.
type FilterSet struct {
	Projects []string `json:"projects"`
	Cities   []string `json:"cities"`
}

// IsEmpty returns true if there is nothing to filter by.
func (f FilterSet) IsEmpty() bool {
	return len(f.Projects) == 0 && len(f.Cities) == 0
}

// DeriveFilters scans a state and an optional document_groups payload and
// returns the distinct project identifiers and city names, sorted.
// It always recomputes from scratch.
func DeriveFilters(state ReducerState, groups map[string][]DocumentRef) FilterSet {
	projects := make(map[string]struct{})
	cities := make(map[string]struct{})

	add := func(set map[string]struct{}, v string) {
		if v != "" {
			set[v] = struct{}{}
		}
	}

	switch state.Kind {
	case StateSingleResult:
		if p := state.Product; p != nil {
			add(projects, p.SourceDocument.ProjectID)
			add(cities, p.SourceDocument.City)
			if p.Occurrences != nil {
				for _, proj := range p.Occurrences.Projects {
					add(projects, proj)
				}
			}
			for _, producer := range p.Producers {
				add(cities, producer.City)
			}
		}
	case StateMultipleResults:
		for _, item := range state.Products {
			add(projects, item.SampleDocument.ProjectID)
			add(cities, item.SampleDocument.City)
		}
	case StateIdle, StateStreaming, StateNoResults, StateError, StatePlainText:
	}

	for _, refs := range groups {
		for _, ref := range refs {
			add(projects, ref.ProjectID)
			add(cities, ref.City)
		}
	}

	return FilterSet{Projects: sortedKeys(projects), Cities: sortedKeys(cities)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
