package matching

import (
	"fmt"
	"os"

	"github.com/okian/crewmatch/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// SamplePool returns the built-in candidate list used when no remote pool
// is available.
func SamplePool() []model.Profile {
	return []model.Profile{
		{
			ID:       "1",
			FullName: "Aarav Sharma",
			Branch:   "cse",
			Skills:   []string{"coding", "problem-solving", "leadership"},
			Traits:   model.Traits{Trait1: "extrovert", Trait2: "analytical", Trait3: "flexible", Trait4: "collaborative"},
			Goal:     "hackathon",
			Bio:      "Passionate full-stack developer with 2 years of experience. Love participating in hackathons!",
		},
		{
			ID:       "2",
			FullName: "Priya Desai",
			Branch:   "design",
			Skills:   []string{"design", "communication", "creativity"},
			Traits:   model.Traits{Trait1: "extrovert", Trait2: "creative", Trait3: "flexible", Trait4: "collaborative"},
			Goal:     "startup",
			Bio:      "UI/UX designer focused on creating beautiful and intuitive experiences. Startup enthusiast!",
		},
		{
			ID:       "3",
			FullName: "Vikram Patel",
			Branch:   "cse",
			Skills:   []string{"coding", "research", "problem-solving"},
			Traits:   model.Traits{Trait1: "introvert", Trait2: "analytical", Trait3: "organized", Trait4: "independent"},
			Goal:     "learning",
			Bio:      "AI/ML enthusiast. Always eager to learn new technologies and solve complex problems.",
		},
		{
			ID:       "4",
			FullName: "Neha Singh",
			Branch:   "business",
			Skills:   []string{"marketing", "communication", "leadership"},
			Traits:   model.Traits{Trait1: "extrovert", Trait2: "creative", Trait3: "organized", Trait4: "collaborative"},
			Goal:     "startup",
			Bio:      "Business strategist with a passion for entrepreneurship. Let's build something big!",
		},
		{
			ID:       "5",
			FullName: "Arjun Kumar",
			Branch:   "cse",
			Skills:   []string{"coding", "project-management", "leadership"},
			Traits:   model.Traits{Trait1: "extrovert", Trait2: "analytical", Trait3: "organized", Trait4: "collaborative"},
			Goal:     "competition",
			Bio:      "Full-stack developer and tech lead. Competitive spirit with a focus on quality code.",
		},
		{
			ID:       "6",
			FullName: "Ritika Gupta",
			Branch:   "ece",
			Skills:   []string{"research", "problem-solving", "communication"},
			Traits:   model.Traits{Trait1: "introvert", Trait2: "analytical", Trait3: "flexible", Trait4: "independent"},
			Goal:     "learning",
			Bio:      "Electronics engineer interested in IoT and embedded systems. Love collaborating on research projects.",
		},
	}
}

// LoadPool reads a YAML list of candidate profiles from path.
func LoadPool(path string) ([]model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolFile, err)
	}
	var pool []model.Profile
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoolFile, err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no candidates in %s", ErrPoolFile, path)
	}
	for i := range pool {
		pool[i] = pool[i].Normalize()
	}
	return pool, nil
}
