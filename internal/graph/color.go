package graph

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultColor is the background color of a freshly added node.
const DefaultColor = "#ffffff"

// colorRule accepts validator's hexcolor forms restricted to #rgb and
// #rrggbb; the alpha forms are rejected by length.
const colorRule = "required,hexcolor,len=4|len=7"

var colorValidate = validator.New(validator.WithRequiredStructEnabled())

// NormalizeColor validates an RGB hex string ("#abc" or "#aabbcc") and
// returns it lower-cased.
func NormalizeColor(s string) (string, error) {
	if err := colorValidate.Var(s, colorRule); err != nil {
		return "", fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}
	return strings.ToLower(s), nil
}
