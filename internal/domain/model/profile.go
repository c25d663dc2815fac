// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Default location preference applied when a profile leaves it blank.
const defaultLocationPreference = "remote"

// Traits holds the four fixed personality slots of a profile.
// Slots are positional: trait1 is only ever compared with trait1.
type Traits struct {
	Trait1 string `json:"trait1" yaml:"trait1"`
	Trait2 string `json:"trait2" yaml:"trait2"`
	Trait3 string `json:"trait3" yaml:"trait3"`
	Trait4 string `json:"trait4" yaml:"trait4"`
}

// Slots returns the traits in slot order.
func (t Traits) Slots() [4]string {
	return [4]string{t.Trait1, t.Trait2, t.Trait3, t.Trait4}
}

// Profile is a user's self-reported attributes used as matching input.
// Candidates share the same shape and are never mutated by matching.
type Profile struct {
	ID                 string    `json:"id,omitempty" yaml:"id"`
	Email              string    `json:"email" yaml:"email"`
	FullName           string    `json:"fullName" yaml:"fullName"`
	Branch             string    `json:"branch" yaml:"branch"`
	Skills             []string  `json:"skills" yaml:"skills"`
	Traits             Traits    `json:"traits" yaml:"traits"`
	Goal               string    `json:"goal" yaml:"goal"`
	Bio                string    `json:"bio" yaml:"bio"`
	LocationPreference string    `json:"locationPreference,omitempty" yaml:"locationPreference"`
	SelectedLocation   string    `json:"selectedLocation,omitempty" yaml:"selectedLocation"`
	CreatedAt          time.Time `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt          time.Time `json:"updatedAt,omitzero" yaml:"-"`
}

// Key returns the identity used to de-duplicate candidates: the email when
// present, the id otherwise. Empty when the profile carries neither.
func (p Profile) Key() string {
	if email := strings.ToLower(strings.TrimSpace(p.Email)); email != "" {
		return email
	}
	return strings.TrimSpace(p.ID)
}

// Normalize returns a copy with trimmed fields, lower-cased vocabulary
// values and de-duplicated skills. Nil slices become empty so callers can
// rely on a fully populated shape.
func (p Profile) Normalize() Profile {
	out := p
	out.ID = strings.TrimSpace(p.ID)
	out.Email = strings.ToLower(strings.TrimSpace(p.Email))
	out.FullName = strings.TrimSpace(p.FullName)
	out.Branch = vocab(p.Branch)
	out.Goal = vocab(p.Goal)
	out.Bio = strings.TrimSpace(p.Bio)
	out.SelectedLocation = strings.TrimSpace(p.SelectedLocation)
	out.LocationPreference = vocab(p.LocationPreference)
	if out.LocationPreference == "" {
		out.LocationPreference = defaultLocationPreference
	}
	out.Traits = Traits{
		Trait1: vocab(p.Traits.Trait1),
		Trait2: vocab(p.Traits.Trait2),
		Trait3: vocab(p.Traits.Trait3),
		Trait4: vocab(p.Traits.Trait4),
	}
	out.Skills = UniqueSkills(p.Skills)
	return out
}

// UniqueSkills lower-cases, trims and de-duplicates skills, keeping first
// occurrence order. The result is never nil.
func UniqueSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = vocab(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func vocab(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
