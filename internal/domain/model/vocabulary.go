package model

// Fixed vocabularies offered by the profile form. Values are the stored
// keys; labels are for display only and never take part in scoring.
var (
	SkillLabels = map[string]string{
		"leadership":         "Leadership",
		"coding":             "Coding",
		"design":             "Design",
		"communication":      "Communication",
		"problem-solving":    "Problem Solving",
		"research":           "Research",
		"marketing":          "Marketing",
		"project-management": "Project Management",
	}

	TraitLabels = map[string]string{
		"introvert":     "Introvert",
		"extrovert":     "Extrovert",
		"analytical":    "Analytical",
		"creative":      "Creative",
		"organized":     "Organized",
		"flexible":      "Flexible",
		"collaborative": "Collaborative",
		"independent":   "Independent",
	}

	GoalLabels = map[string]string{
		"hackathon":   "Hackathon Participation",
		"startup":     "Startup Building",
		"learning":    "Learning & Growth",
		"competition": "Competition",
		"project":     "Project Development",
		"networking":  "Networking",
	}

	BranchLabels = map[string]string{
		"cse":      "Computer Science & Engineering",
		"ece":      "Electronics & Communication",
		"mech":     "Mechanical Engineering",
		"civil":    "Civil Engineering",
		"design":   "Design & UI/UX",
		"business": "Business & Management",
		"other":    "Other",
	}

	LocationLabels = map[string]string{
		"remote":    "Remote",
		"in-person": "In-Person",
		"hybrid":    "Hybrid",
	}
)

// Label returns the display label for key in labels, or key itself when unknown.
func Label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}
