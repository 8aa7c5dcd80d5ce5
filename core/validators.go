package core

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	extensionTag  = "extension"
	extensionText = "must not contain a path separator"

	requiredTag  = "required"
	requiredText = "this field is required"

	errInvalid = errors.New("invalid options")
)

// Validator validates option structs and single values, with english messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	InitValidators(validate, translator)
	return &Validator{validate: validate, translator: translator}
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use the command line flag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("flag"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(extensionTag, extensionValidation)
	RegisterCustomTranslation(validate, translator, extensionTag, extensionText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s and returns a *ValidationError listing every failing field.
func (v *Validator) Struct(s interface{}) error {
	return v.translate(v.validate.Struct(s))
}

// Var validates a single value, e.g. Var("bcc", addr, "email").
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.translate(v.validate.Var(value, tag))
	verr, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	for i := range verr.Fields {
		verr.Fields[i].Field = field
		verr.Fields[i].Error = fmt.Sprintf("%s (got %v)", strings.TrimSpace(verr.Fields[i].Error), value)
	}
	return verr
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(v.translator)})
	}
	return NewValidationError(errInvalid, flds...)
}

// Custom Global Validators

// extensionValidation rejects archive extensions that would escape the source directory.
func extensionValidation(fl validator.FieldLevel) bool {
	ext := fl.Field().String()
	return !strings.ContainsRune(ext, os.PathSeparator) && !strings.ContainsRune(ext, '/')
}
