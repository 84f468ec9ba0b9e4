// Package profile accumulates the seven candidate fields in a fixed order.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/spigell/talentscout/internal/i18n"
)

// Field names a candidate profile field.
type Field string

const (
	FullName          Field = "full_name"
	Email             Field = "email"
	Phone             Field = "phone"
	DesiredPositions  Field = "desired_positions"
	YearsOfExperience Field = "years_of_experience"
	CurrentLocation   Field = "current_location"
	TechStack         Field = "tech_stack"
)

// Fields is the collection order. Fields are always filled in this order.
var Fields = []Field{FullName, Email, Phone, DesiredPositions, YearsOfExperience, CurrentLocation, TechStack}

var prompts = map[Field]i18n.Key{
	FullName:          i18n.KeyAskName,
	Email:             i18n.KeyAskEmail,
	Phone:             i18n.KeyAskPhone,
	DesiredPositions:  i18n.KeyAskRole,
	YearsOfExperience: i18n.KeyAskExperience,
	CurrentLocation:   i18n.KeyAskLocation,
	TechStack:         i18n.KeyAskTechStack,
}

var labels = map[Field]string{
	FullName:          "Name",
	Email:             "Email",
	Phone:             "Phone",
	DesiredPositions:  "Role",
	YearsOfExperience: "YoE",
	CurrentLocation:   "Loc",
	TechStack:         "Stack",
}

// PromptKey returns the translation key asking for f.
func (f Field) PromptKey() i18n.Key { return prompts[f] }

// Label returns the short progress label for f.
func (f Field) Label() string { return labels[f] }

var (
	ErrEmptyValue    = errors.New("profile value must not be empty")
	ErrOutOfOrder    = errors.New("profile field written out of order")
	ErrAlreadyFilled = errors.New("profile field already filled")
	ErrUnknownField  = errors.New("unknown profile field")
)

// Profile holds the candidate answers. The zero value is an empty profile.
type Profile struct {
	values map[Field]string
}

// Next returns the first unfilled field, or false when the profile is complete.
func (p *Profile) Next() (Field, bool) {
	for _, f := range Fields {
		if p.values[f] == "" {
			return f, true
		}
	}
	return "", false
}

// Set records the trimmed value for f. Only the next unfilled field may be
// written and a filled field is never overwritten.
func (p *Profile) Set(f Field, value string) error {
	if _, ok := prompts[f]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}

	if p.values[f] != "" {
		return fmt.Errorf("%w: %s", ErrAlreadyFilled, f)
	}

	next, ok := p.Next()
	if !ok || next != f {
		return fmt.Errorf("%w: got %s, expected %s", ErrOutOfOrder, f, next)
	}

	if p.values == nil {
		p.values = make(map[Field]string, len(Fields))
	}
	p.values[f] = value
	return nil
}

// Get returns the stored value for f, empty when unfilled.
func (p *Profile) Get(f Field) string { return p.values[f] }

// Filled returns the number of filled fields.
func (p *Profile) Filled() int {
	n := 0
	for _, f := range Fields {
		if p.values[f] != "" {
			n++
		}
	}
	return n
}

// Complete reports whether all fields are filled.
func (p *Profile) Complete() bool { return p.Filled() == len(Fields) }

// Completion returns the filled fraction in [0, 1] for progress display.
func (p *Profile) Completion() float64 {
	return float64(p.Filled()) / float64(len(Fields))
}

// Values returns a copy of every field, unfilled ones as empty strings.
func (p *Profile) Values() Values {
	out := make(Values, len(Fields))
	for _, f := range Fields {
		out[f] = p.values[f]
	}
	return out
}

// Values is a field snapshot. It marshals as a JSON object with keys in
// collection order.
type Values map[Field]string

// MarshalJSON implements json.Marshaler keeping the declared field order.
// HTML characters are written as is.
func (v Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(string(f))
		if err != nil {
			return nil, err
		}
		val, err := sonic.Marshal(v[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
