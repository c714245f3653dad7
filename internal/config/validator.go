package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("searchurl", isSearchURL); err != nil {
		return nil, nil, fmt.Errorf("failed to register searchurl validation: %w", err)
	}
	if err := validate.RegisterTranslation("searchurl", trans, func(ut ut.Translator) error {
		return ut.Add("searchurl", "{0} must be an http, https or file URL", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("searchurl", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register searchurl translation: %w", err)
	}

	return validate, trans, nil
}

// isSearchURL accepts http(s) URLs with a host and file URLs with a path.
// A file URL may carry a "%s" slot for the term, so it is not parsed.
func isSearchURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.HasPrefix(value, "file://") {
		return strings.HasPrefix(strings.TrimPrefix(value, "file://"), "/")
	}

	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
