package seed

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/crewmatch/internal/domain/model"
)

var firstNames = []string{
	"Aarav", "Diya", "Kabir", "Meera", "Rohan", "Isha", "Vihaan", "Anaya",
	"Arjun", "Saanvi", "Dev", "Tara", "Nikhil", "Priya", "Yash", "Zoya",
}

var lastNames = []string{
	"Sharma", "Iyer", "Mehta", "Nair", "Gupta", "Reddy", "Kapoor", "Das",
}

const minSkills = 3

// Generate returns n valid profiles drawn from the fixed vocabularies. The
// same seed always yields the same profiles.
func Generate(n int, seed uint64, domain string) []model.Profile {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	skills := sortedKeys(model.SkillLabels)
	traits := sortedKeys(model.TraitLabels)
	goals := sortedKeys(model.GoalLabels)
	branches := sortedKeys(model.BranchLabels)
	locations := sortedKeys(model.LocationLabels)

	out := make([]model.Profile, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[r.IntN(len(firstNames))]
		last := lastNames[r.IntN(len(lastNames))]
		picked := pick(r, traits, 4)
		out = append(out, model.Profile{
			Email:    emailFor(r, first, i, domain),
			FullName: first + " " + last,
			Branch:   branches[r.IntN(len(branches))],
			Skills:   pick(r, skills, minSkills+r.IntN(len(skills)-minSkills+1)),
			Traits: model.Traits{
				Trait1: picked[0],
				Trait2: picked[1],
				Trait3: picked[2],
				Trait4: picked[3],
			},
			Goal:               goals[r.IntN(len(goals))],
			Bio:                "Generated profile #" + strconv.Itoa(i+1),
			LocationPreference: locations[r.IntN(len(locations))],
		})
	}
	return out
}

// emailFor derives a stable unique address from the generator stream.
func emailFor(r *rand.Rand, first string, i int, domain string) string {
	var b [16]byte
	for j := range b {
		b[j] = byte(r.Uint32())
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, b[:])
	return strings.ToLower(first) + "." + strconv.Itoa(i+1) + "." + id.String()[:8] + "@" + domain
}

func pick(r *rand.Rand, from []string, k int) []string {
	idx := r.Perm(len(from))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = from[j]
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
