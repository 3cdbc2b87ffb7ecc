package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON names instead of Go field names.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// decodeBody decodes a single JSON object from r into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON object")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := getValidator().Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			msgs = append(msgs, e.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// requireQuery returns the query parameter name exactly as sent, or
// ErrMissingParam when it is absent or empty. Lookups match it verbatim, the
// same way a session matches the value it stored.
func requireQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if err := getValidator().Var(v, "required"); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return v, nil
}
