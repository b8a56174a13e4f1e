package commands

import (
	"fmt"
	"strings"
)

// choiceValue is a string flag restricted to a closed set. Matching ignores
// case and the canonical spelling is stored, so a bad value fails during
// flag parsing before any command runs.
type choiceValue struct {
	value   string
	choices []string
}

func newChoiceValue(def string, choices []string) *choiceValue {
	return &choiceValue{value: def, choices: choices}
}

func (c *choiceValue) Set(s string) error {
	s = strings.TrimSpace(s)
	for _, ch := range c.choices {
		if strings.EqualFold(s, ch) {
			c.value = ch
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(c.choices, ", "))
}

func (c *choiceValue) String() string { return c.value }

func (c *choiceValue) Type() string { return "choice" }

// usage appends the allowed values to a flag description.
func (c *choiceValue) usage(desc string) string {
	return fmt.Sprintf("%s (%s)", desc, strings.Join(c.choices, "|"))
}
