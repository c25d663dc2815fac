package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/crewmatch/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	vocab := map[string]map[string]string{
		"skill":    model.SkillLabels,
		"trait":    model.TraitLabels,
		"goal":     model.GoalLabels,
		"location": model.LocationLabels,
	}
	for tag, labels := range vocab {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			_, ok := labels[fl.Field().String()]
			return ok
		})
	}
	return v
}

// validationError flattens validator output into one readable message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// profileRequest mirrors the profile form. Vocabulary fields are checked
// after normalization so case and spacing do not matter.
type profileRequest struct {
	Email              string       `json:"email"`
	FullName           string       `json:"fullName"`
	Branch             string       `json:"branch"`
	Skills             []string     `json:"skills"`
	Traits             model.Traits `json:"traits"`
	Goal               string       `json:"goal"`
	Bio                string       `json:"bio"`
	LocationPreference string       `json:"locationPreference"`
	SelectedLocation   string       `json:"selectedLocation"`
}

func (r profileRequest) profile() model.Profile {
	return model.Profile{
		Email:              r.Email,
		FullName:           r.FullName,
		Branch:             r.Branch,
		Skills:             r.Skills,
		Traits:             r.Traits,
		Goal:               r.Goal,
		Bio:                r.Bio,
		LocationPreference: r.LocationPreference,
		SelectedLocation:   r.SelectedLocation,
	}.Normalize()
}

type validatedTraits struct {
	Trait1 string `validate:"omitempty,trait"`
	Trait2 string `validate:"omitempty,trait"`
	Trait3 string `validate:"omitempty,trait"`
	Trait4 string `validate:"omitempty,trait"`
}

type validatedProfile struct {
	Email              string   `validate:"required,email"`
	FullName           string   `validate:"required,max=120"`
	Branch             string   `validate:"omitempty,max=40"`
	Skills             []string `validate:"min=3,dive,skill"`
	Traits             validatedTraits
	Goal               string `validate:"required,goal"`
	Bio                string `validate:"max=1000"`
	LocationPreference string `validate:"location"`
	SelectedLocation   string `validate:"max=200"`
}

// validateProfile applies the ingress rules to a normalized profile.
func validateProfile(p model.Profile) error {
	err := validate.Struct(validatedProfile{
		Email:    p.Email,
		FullName: p.FullName,
		Branch:   p.Branch,
		Skills:   p.Skills,
		Traits: validatedTraits{
			Trait1: p.Traits.Trait1,
			Trait2: p.Traits.Trait2,
			Trait3: p.Traits.Trait3,
			Trait4: p.Traits.Trait4,
		},
		Goal:               p.Goal,
		Bio:                p.Bio,
		LocationPreference: p.LocationPreference,
		SelectedLocation:   p.SelectedLocation,
	})
	if err != nil {
		return validationError(err)
	}
	return nil
}

type createGroupRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description" validate:"max=500"`
	CreatorEmail string   `json:"creatorEmail" validate:"required,email"`
	Members      []string `json:"members" validate:"omitempty,dive,email"`
}

type memberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type messageRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required,max=2000"`
	ClientID string `json:"clientId" validate:"max=128"`
}

type connectionRequest struct {
	User1Email string `json:"user1Email" validate:"required,email"`
	User2Email string `json:"user2Email" validate:"required,email,nefield=User1Email"`
}

type connectionResponseRequest struct {
	User1Email string       `json:"user1Email" validate:"required,email"`
	User2Email string       `json:"user2Email" validate:"required,email"`
	Status     model.Status `json:"status" validate:"required,oneof=accepted declined"`
}

type syncRequest struct {
	Email       string `json:"email" validate:"required,email"`
	AccessToken string `json:"accessToken" validate:"required"`
}

type inviteRequest struct {
	EventID      string `json:"eventId" validate:"required"`
	InviterEmail string `json:"inviterEmail" validate:"required,email"`
	InviteeEmail string `json:"inviteeEmail" validate:"required,email,nefield=InviterEmail"`
}

type invitationResponseRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=accepted declined"`
}

// trimStrings trims surrounding whitespace from the request's string fields
// before validation.
func trimStrings(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
