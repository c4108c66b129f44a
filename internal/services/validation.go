package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so positional fields read like the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

var fieldMessages = map[string]string{
	"required": "ist erforderlich.",
	"notblank": "darf nicht leer sein.",
	"email":    "ist keine gültige E-Mail-Adresse.",
	"min":      "ist zu kurz oder zu klein.",
	"max":      "ist zu lang oder zu groß.",
	"gt":       "muss größer als 0 sein.",
	"gte":      "darf nicht negativ sein.",
	"dive":     "ist ungültig.",
}

// validateStruct runs the struct tags of req and turns the first failure into a
// ValidationError naming the field by its json path.
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("", "Ungültige Eingabe.")
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		msg = "ist ungültig."
	}
	return invalid(field, field+" "+msg)
}
