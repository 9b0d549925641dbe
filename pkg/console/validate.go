package console

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minTitleLen       = 20
	minDescriptionLen = 50
)

// mashSequences are keyboard runs that, repeated back to back, mark a
// description as mashing rather than prose.
var mashSequences = []string{"asdf", "qwert", "1234", "0000", "1111", "9999", "abcdef"}

// Submission is a new incident as entered in the report form, validated
// before anything is sent to the backend.
type Submission struct {
	Title         string `json:"title" validate:"required,min=20"`
	Description   string `json:"description" validate:"required,min=50,coherent"`
	SeverityLevel string `json:"severity_level" validate:"required,oneof=Low Medium High"`
}

// SubmissionValidator checks report-form input. Length checks run on trimmed
// values; the coherence check rejects keyboard mashing that satisfies the
// length minimums without saying anything.
type SubmissionValidator struct {
	validate *validator.Validate
}

// NewSubmissionValidator builds the validator with the coherence rule
// registered.
func NewSubmissionValidator() *SubmissionValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for a bad rule name or nil func.
	_ = v.RegisterValidation("coherent", func(fl validator.FieldLevel) bool {
		return !IsKeyboardMashing(fl.Field().String())
	})
	return &SubmissionValidator{validate: v}
}

// Check validates the submission and returns one message per failed rule.
// The trimmed submission is returned so callers send exactly what was
// validated.
func (sv *SubmissionValidator) Check(sub Submission) (Submission, []string) {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Description = strings.TrimSpace(sub.Description)

	err := sv.validate.Struct(sub)
	if err == nil {
		return sub, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return sub, []string{err.Error()}
	}

	var problems []string
	for _, fe := range verrs {
		problems = append(problems, submissionProblem(fe))
	}
	return sub, problems
}

func submissionProblem(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Title":
		return "title must be at least 20 characters long"
	case "Description":
		if fe.Tag() == "coherent" {
			return "description looks like random keyboard input, please describe the incident"
		}
		return "description must be at least 50 characters long"
	case "SeverityLevel":
		return "severity level must be one of Low, Medium or High"
	default:
		return fe.Error()
	}
}

// IsKeyboardMashing reports whether text looks like keyboard mashing: a
// known key run repeated back to back, any character repeated seven or more
// times, or more than half the characters being neither letters nor spaces.
func IsKeyboardMashing(text string) bool {
	lower := strings.ToLower(text)

	for _, seq := range mashSequences {
		if strings.Contains(lower, seq+seq) {
			return true
		}
	}

	run := 0
	var prev rune
	for _, r := range lower {
		if r == prev {
			run++
			if run >= 7 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}

	total := 0
	noise := 0
	for _, r := range lower {
		total++
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			noise++
		}
	}
	return total > 0 && noise*2 > total
}
