package importer

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// maxReportedIssues caps how many row problems go back to the client.
const maxReportedIssues = 25

// Record is the validated shape of one activity at the ingestion boundary.
// Score is optional; a nil score is derived from the votes.
type Record struct {
	Name          string   `json:"name" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Price         string   `json:"price"`
	LoveVotes     int      `json:"love_votes" validate:"gte=0"`
	LikeVotes     int      `json:"like_votes" validate:"gte=0"`
	PassVotes     int      `json:"pass_votes" validate:"gte=0"`
	Score         *float64 `json:"score,omitempty"`
	WebsiteLink   string   `json:"website_link" validate:"omitempty,url"`
	GoogleMapsURL string   `json:"google_maps_url" validate:"omitempty,url"`
	GroupNames    string   `json:"groupNames"`
}

func RecordOf(a analysis.Activity) Record {
	score := a.Score
	return Record{
		Name:          a.Name,
		Category:      a.Category,
		Price:         a.Price,
		LoveVotes:     a.LoveVotes,
		LikeVotes:     a.LikeVotes,
		PassVotes:     a.PassVotes,
		Score:         &score,
		WebsiteLink:   a.WebsiteLink,
		GoogleMapsURL: a.GoogleMapsURL,
		GroupNames:    a.GroupNames,
	}
}

// Activity converts the record, recomputing the score when it is absent.
func (r Record) Activity() analysis.Activity {
	a := analysis.Activity{
		Name:          r.Name,
		Category:      r.Category,
		Price:         r.Price,
		LoveVotes:     r.LoveVotes,
		LikeVotes:     r.LikeVotes,
		PassVotes:     r.PassVotes,
		WebsiteLink:   r.WebsiteLink,
		GoogleMapsURL: r.GoogleMapsURL,
		GroupNames:    r.GroupNames,
	}
	if a.Price == "" {
		a.Price = missingPrice
	}
	if r.Score == nil {
		return a.WithScore()
	}
	a.Score = *r.Score
	return a
}

// Validator checks records before they are persisted.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Prepare drops rows that carry no data at all, then validates the rest.
// Row numbers in the error are 1-based file lines, counting the header.
func (val *Validator) Prepare(activities []analysis.Activity) ([]analysis.Activity, error) {
	kept := make([]analysis.Activity, 0, len(activities))
	issues := map[string]string{}

	for i, a := range activities {
		if isEmptyRow(a) {
			continue
		}
		if err := val.v.Struct(RecordOf(a)); err != nil {
			var fieldErrs validator.ValidationErrors
			if !stderrors.As(err, &fieldErrs) {
				return nil, fmt.Errorf("validate row %d: %w", i+2, err)
			}
			for _, fe := range fieldErrs {
				if len(issues) >= maxReportedIssues {
					break
				}
				issues[fmt.Sprintf("row %d %s", i+2, fe.Field())] = describe(fe)
			}
			continue
		}
		kept = append(kept, a)
	}

	if len(issues) > 0 {
		return nil, errors.NewValidationErrorWithMap("Invalid activity rows", issues)
	}
	if len(kept) == 0 {
		return nil, errors.NewValidationError("No valid activities found in CSV")
	}
	return kept, nil
}

func isEmptyRow(a analysis.Activity) bool {
	return a.Name == "" && a.Category == "" && a.LoveVotes == 0 && a.LikeVotes == 0 && a.PassVotes == 0 &&
		(a.Price == "" || a.Price == missingPrice) && a.WebsiteLink == "" && a.GoogleMapsURL == "" && a.GroupNames == ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
