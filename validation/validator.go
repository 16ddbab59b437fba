package validation

import (
	"fmt"

	"github.com/jmorel/formwell/model"
)

// Validate checks a submission against the form's question set and
// collects human-readable reasons: first a required pass in question
// order, then a per-answer pass in submission order. Duplicate question
// ids in the input shadow each other in the lookup map, later wins.
func Validate(questions []model.Question, answers []model.AnswerInput) (ok bool, errs []string) {
	questionByID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	submitted := make(map[string]model.Value, len(answers))
	for _, a := range answers {
		submitted[a.QuestionID] = a.Value
	}

	for _, q := range questions {
		if !q.IsRequired {
			continue
		}

		value, found := submitted[q.ID]
		// NB: an empty checkbox list slips through here, only
		// absent and empty-string values count as missing.
		if !found || value.IsAbsent() || (value.Kind == model.KindString && value.Str == "") {
			errs = append(errs, fmt.Sprintf("Question '%s' is required", q.Title))
		}
	}

	for _, a := range answers {
		q, found := questionByID[a.QuestionID]
		if !found {
			errs = append(errs, fmt.Sprintf("Invalid question ID: %s", a.QuestionID))
			continue
		}

		if !TypeAccepts(q, a.Value) {
			errs = append(errs, fmt.Sprintf("Invalid answer type for '%s'", q.Title))
		}
	}

	return len(errs) == 0, errs
}
