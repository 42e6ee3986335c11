package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("goal", isGoal); err != nil {
		panic(err)
	}
	return v
}

func isGoal(fl validator.FieldLevel) bool {
	g, ok := fl.Field().Interface().(internal.Goal)
	return ok && g.Valid()
}

// validateStruct runs the struct tags and reports failures as a
// validation DomainError naming each offending field.
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return internal.Invalidf("%s", strings.Join(msgs, "; "))
}
