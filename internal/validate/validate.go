package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug = regexp.MustCompile(`[^a-z0-9]+`)

	v = validator.New(validator.WithRequiredStructEnabled())
)

// ID validates a simple resource identifier (product/variant/attribute ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// OptionalID accepts "" as absent and otherwise behaves like ID.
func OptionalID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return ID(s)
}

// Name trims s and checks it against a maximum length in runes.
func Name(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > max {
		return s, false
	}
	return s, true
}

// Qty parses a positive quantity; ok is false for anything else.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Slug lowercases s and collapses every run of non-alphanumerics into one dash.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Struct runs the `validate` tags on a request DTO and flattens the first
// failure into a short message naming the field.
func Struct(dto any) error {
	err := v.Struct(dto)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		f := fe[0]
		if f.Param() != "" {
			return fmt.Errorf("%s failed %s=%s", f.Field(), f.Tag(), f.Param())
		}
		return fmt.Errorf("%s failed %s", f.Field(), f.Tag())
	}
	return err
}
