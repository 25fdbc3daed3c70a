package main

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
)

// fieldMessages maps "Field.tag" to the message shown for that failure
type fieldMessages map[string]string

// bindJSON decodes the body into req. On failure it responds 400 and returns false.
func bindJSON(c *gin.Context, req interface{}, messages fieldMessages) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		errors.Respond(c, errors.NewValidationError("Invalid request body", err.Error()))
		return false
	}

	issues := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "failed " + fe.Tag() + " check"
		}
		issues[jsonName(fe.Field())] = msg
	}

	message := "Validation failed"
	if len(issues) == 1 {
		for _, msg := range issues {
			message = msg
		}
	}
	errors.Respond(c, errors.NewValidationErrorWithMap(message, issues))
	return false
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
