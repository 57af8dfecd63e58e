// ABOUTME: Duplicate grouping engine built on union-find
// ABOUTME: Clusters contacts that transitively share any canonical key
package dedupe

import (
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
)

// unionFind tracks connected record indices with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range u.parent {
		u.parent[i] = i
		u.size[i] = 1
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

// GroupDuplicates clusters records that share a canonical key, directly or
// through a chain of other records. Only groups of two or more are returned.
// Members keep input order and groups are ordered by their first member, so
// identical input always yields identical output.
func GroupDuplicates(records []models.Contact) []models.DuplicateGroup {
	uf := newUnionFind(len(records))
	keysByRecord := make([][]models.CanonicalKey, len(records))

	// First record to contribute each key; later contributors join its set.
	owner := make(map[models.CanonicalKey]int)

	for i := range records {
		keys := CanonicalKeys(records[i])
		if len(keys) == 0 {
			continue
		}
		keysByRecord[i] = keys

		for _, key := range keys {
			if j, ok := owner[key]; ok {
				uf.union(i, j)
			} else {
				owner[key] = i
			}
		}
	}

	var roots []int
	membersByRoot := make(map[int][]int)
	for i, keys := range keysByRecord {
		if len(keys) == 0 {
			continue
		}
		root := uf.find(i)
		if _, ok := membersByRoot[root]; !ok {
			roots = append(roots, root)
		}
		membersByRoot[root] = append(membersByRoot[root], i)
	}

	var groups []models.DuplicateGroup
	for _, root := range roots {
		members := membersByRoot[root]
		if len(members) < 2 {
			continue
		}

		group := buildGroup(records, keysByRecord, members)
		if len(group.Keys) == 0 {
			continue
		}
		groups = append(groups, group)
	}

	return groups
}

func buildGroup(records []models.Contact, keysByRecord [][]models.CanonicalKey, members []int) models.DuplicateGroup {
	contributors := make(map[models.CanonicalKey]int)
	group := models.DuplicateGroup{
		Members: make([]uuid.UUID, 0, len(members)),
	}

	for _, idx := range members {
		group.Members = append(group.Members, records[idx].ID)
		for _, key := range keysByRecord[idx] {
			contributors[key]++
		}
	}

	for key, count := range contributors {
		group.Keys = append(group.Keys, key)
		if count > 1 {
			group.Shared = append(group.Shared, key)
		}
	}
	sortKeys(group.Keys)
	sortKeys(group.Shared)

	return group
}

func sortKeys(keys []models.CanonicalKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
