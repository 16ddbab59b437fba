package validation

import (
	"strings"

	"github.com/jmorel/formwell/model"
)

// shape predicates per question type. Date strings are accepted as-is,
// format checking is still an open point.
var registry = map[model.QuestionType]func(model.Value) bool{
	model.ShortText:      isString,
	model.LongText:       isString,
	model.Number:         isNumber,
	model.Email:          isEmail,
	model.Date:           isString,
	model.MultipleChoice: isString,
	model.Checkbox:       isList,
	model.Dropdown:       isString,
}

func isString(v model.Value) bool {
	return v.Kind == model.KindString
}

func isNumber(v model.Value) bool {
	return v.Kind == model.KindNumber
}

func isEmail(v model.Value) bool {
	return v.Kind == model.KindString && strings.Contains(v.Str, "@")
}

func isList(v model.Value) bool {
	return v.Kind == model.KindList
}

// TypeAccepts reports whether value has an acceptable shape for the
// question. An absent value is acceptable only on optional questions;
// unknown types accept anything.
func TypeAccepts(q model.Question, v model.Value) bool {
	if v.IsAbsent() {
		return !q.IsRequired
	}

	accepts, ok := registry[q.Type]
	if !ok {
		return true
	}
	return accepts(v)
}
