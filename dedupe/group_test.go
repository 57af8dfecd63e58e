package dedupe

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contact(given, family string, phones, emails []string) models.Contact {
	return models.Contact{
		ID:         uuid.New(),
		GivenName:  given,
		FamilyName: family,
		Phones:     phones,
		Emails:     emails,
	}
}

// memberSets returns each group's members as a sorted string key, sorted.
func memberSets(groups []models.DuplicateGroup) []string {
	var sets []string
	for _, g := range groups {
		ids := make([]string, len(g.Members))
		for i, id := range g.Members {
			ids[i] = id.String()
		}
		sort.Strings(ids)
		key := ""
		for _, id := range ids {
			key += id + ","
		}
		sets = append(sets, key)
	}
	sort.Strings(sets)
	return sets
}

func TestGroupDuplicatesEmptyInput(t *testing.T) {
	assert.Empty(t, GroupDuplicates(nil))
	assert.Empty(t, GroupDuplicates([]models.Contact{}))
}

func TestGroupDuplicatesExcludesInertRecords(t *testing.T) {
	blank1 := contact("", "", nil, nil)
	blank2 := contact("  ", "", []string{""}, []string{""})
	alice := contact("Alice", "", nil, nil)

	groups := GroupDuplicates([]models.Contact{blank1, blank2, alice})

	assert.Empty(t, groups)
}

func TestGroupDuplicatesPhoneFormatting(t *testing.T) {
	a := contact("", "", []string{"555-123-4567"}, nil)
	b := contact("", "", []string{"(555) 123-4567"}, nil)

	groups := GroupDuplicates([]models.Contact{a, b})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, groups[0].Members)
	assert.Equal(t, []models.CanonicalKey{"phone:5551234567"}, groups[0].Shared)
}

func TestGroupDuplicatesTransitivity(t *testing.T) {
	a := contact("", "", nil, []string{"a@x.com"})
	b := contact("", "", []string{"1234567890"}, []string{"a@x.com"})
	c := contact("", "", []string{"1234567890"}, nil)

	groups := GroupDuplicates([]models.Contact{a, b, c})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, groups[0].Members)
	assert.Equal(t, []models.CanonicalKey{"email:a@x.com", "phone:1234567890"}, groups[0].Keys)
	assert.Equal(t, []models.CanonicalKey{"email:a@x.com", "phone:1234567890"}, groups[0].Shared)
}

func TestGroupDuplicatesBridgeMergesExistingGroups(t *testing.T) {
	// Two groups form first and are joined by a later record.
	a := contact("", "", []string{"111"}, nil)
	b := contact("", "", []string{"111"}, nil)
	c := contact("", "", nil, []string{"c@x.com"})
	d := contact("", "", nil, []string{"c@x.com"})
	bridge := contact("", "", []string{"111"}, []string{"C@X.com"})
	loner := contact("Loner", "", nil, nil)

	groups := GroupDuplicates([]models.Contact{a, b, c, d, loner, bridge})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID, d.ID, bridge.ID}, groups[0].Members)
}

func TestGroupDuplicatesScenario(t *testing.T) {
	r1 := contact("Jo", "Lee", []string{"5551234567"}, nil)
	r2 := contact("Joanna", "Lee", []string{"555-123-4567"}, nil)
	r3 := contact("Bob", "X", []string{}, nil)

	groups := GroupDuplicates([]models.Contact{r1, r2, r3})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{r1.ID, r2.ID}, groups[0].Members)
	assert.Equal(t, r1.ID, groups[0].Representative())
	for _, g := range groups {
		assert.NotContains(t, g.Members, r3.ID)
	}
}

func TestGroupDuplicatesNameOnlyMatch(t *testing.T) {
	a := contact("Sam", "", nil, nil)
	b := contact(" SAM", "", nil, nil)

	groups := GroupDuplicates([]models.Contact{a, b})

	require.Len(t, groups, 1)
	assert.Equal(t, []models.CanonicalKey{"name:sam"}, groups[0].Shared)
}

func TestGroupDuplicatesPartitionsRecords(t *testing.T) {
	records := []models.Contact{
		contact("A", "", []string{"1"}, nil),
		contact("B", "", []string{"2"}, nil),
		contact("C", "", []string{"1"}, nil),
		contact("D", "", []string{"2"}, []string{"d@x.com"}),
		contact("E", "", nil, []string{"d@x.com"}),
		contact("F", "", nil, nil),
	}

	groups := GroupDuplicates(records)

	require.Len(t, groups, 2)
	seen := make(map[uuid.UUID]int)
	for _, g := range groups {
		assert.GreaterOrEqual(t, len(g.Members), 2)
		for _, id := range g.Members {
			seen[id]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "contact %s appears in more than one group", id)
	}
	assert.Equal(t, []uuid.UUID{records[0].ID, records[2].ID}, groups[0].Members)
	assert.Equal(t, []uuid.UUID{records[1].ID, records[3].ID, records[4].ID}, groups[1].Members)
}

func TestGroupDuplicatesOrderIndependentMembership(t *testing.T) {
	records := []models.Contact{
		contact("Jo", "Lee", []string{"5551234567"}, nil),
		contact("Joanna", "Lee", []string{"555-123-4567"}, []string{"jo@lee.com"}),
		contact("", "", nil, []string{"JO@lee.com"}),
		contact("Bob", "X", nil, nil),
		contact("bob", "x", []string{"999"}, nil),
		contact("", "", []string{"999"}, nil),
		contact("Solo", "", nil, []string{"solo@x.com"}),
	}

	expected := memberSets(GroupDuplicates(records))
	require.Len(t, expected, 2)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]models.Contact(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, expected, memberSets(GroupDuplicates(shuffled)))
	}
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 1)
	uf.union(3, 4)
	uf.union(1, 4)

	assert.Equal(t, uf.find(0), uf.find(3))
	assert.NotEqual(t, uf.find(0), uf.find(2))
	assert.Equal(t, 4, uf.size[uf.find(0)])
}

func TestGroupDuplicatesEmailWhitespaceIsSignificant(t *testing.T) {
	a := contact("", "", nil, []string{" A@x.com"})
	b := contact("", "", nil, []string{"a@x.com"})
	c := contact("", "", nil, []string{"A@X.COM"})

	groups := GroupDuplicates([]models.Contact{a, b, c})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{b.ID, c.ID}, groups[0].Members)
}
