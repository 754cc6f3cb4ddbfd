// Package params materializes the -P project properties of an invocation
// into an immutable value threaded through the task graph.
package params

import (
	"sort"
	"strconv"
	"strings"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/errors"
)

// Params holds the recognized build parameters. The zero value has every
// flag cleared and no javaVersion.
type Params struct {
	javaVersion    int
	javaVersionSet bool
	skipQuality    bool
	includeStress  bool
	disableLocal   bool
}

// Parse builds Params from property strings of the form "name" or
// "name=value". A flag is set by its presence, by "true" or by an empty value,
// and cleared by "false". A later occurrence of the same property wins.
//
// Unknown names return ErrUnknownParameter. A javaVersion that is not an
// integer in [8, 99] returns ErrInvalidJavaVersion.
func Parse(props []string) (Params, error) {
	var p Params
	for _, prop := range props {
		name, value, hasValue := strings.Cut(prop, "=")
		name = strings.TrimSpace(name)

		switch name {
		case constants.ParamJavaVersion:
			v, err := parseJavaVersion(value, hasValue)
			if err != nil {
				return Params{}, err
			}
			p.javaVersion = v
			p.javaVersionSet = true
		case constants.ParamSkipQuality:
			v, err := parseFlag(name, value)
			if err != nil {
				return Params{}, err
			}
			p.skipQuality = v
		case constants.ParamIncludeStress:
			v, err := parseFlag(name, value)
			if err != nil {
				return Params{}, err
			}
			p.includeStress = v
		case constants.ParamDisableLocal:
			v, err := parseFlag(name, value)
			if err != nil {
				return Params{}, err
			}
			p.disableLocal = v
		default:
			return Params{}, errors.Wrapf(errors.ErrUnknownParameter, "-P%s", prop)
		}
	}
	return p, nil
}

func parseJavaVersion(value string, hasValue bool) (int, error) {
	if !hasValue || value == "" {
		return 0, errors.Wrap(errors.ErrInvalidJavaVersion, "javaVersion requires a value")
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidJavaVersion, "javaVersion=%q is not an integer", value)
	}
	if v < constants.MinJavaVersion || v > constants.MaxJavaVersion {
		return 0, errors.Wrapf(errors.ErrInvalidJavaVersion, "javaVersion=%d is outside [%d, %d]",
			v, constants.MinJavaVersion, constants.MaxJavaVersion)
	}
	return v, nil
}

func parseFlag(name, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrInvalidParameter, "%s=%q", name, value)
	}
}

// JavaVersion returns the javaVersion parameter and whether it was given.
func (p Params) JavaVersion() (int, bool) { return p.javaVersion, p.javaVersionSet }

// SkipQuality reports whether the quality gate is disabled.
func (p Params) SkipQuality() bool { return p.skipQuality }

// IncludeStress reports whether stress tests run as part of test.
func (p Params) IncludeStress() bool { return p.includeStress }

// DisableLocal reports whether tests needing local resources are excluded.
func (p Params) DisableLocal() bool { return p.disableLocal }

// WithDisableLocal returns a copy with disableLocal set.
func (p Params) WithDisableLocal() Params {
	p.disableLocal = true
	return p
}

// Properties renders the set parameters back into -P arguments in a stable order.
func (p Params) Properties() []string {
	var out []string
	if p.javaVersionSet {
		out = append(out, "-P"+constants.ParamJavaVersion+"="+strconv.Itoa(p.javaVersion))
	}
	for name, set := range map[string]bool{
		constants.ParamSkipQuality:   p.skipQuality,
		constants.ParamIncludeStress: p.includeStress,
		constants.ParamDisableLocal:  p.disableLocal,
	} {
		if set {
			out = append(out, "-P"+name)
		}
	}
	sort.Strings(out)
	return out
}

// Map returns the parameters as a name to value map for reporting.
func (p Params) Map() map[string]string {
	m := map[string]string{
		constants.ParamSkipQuality:   strconv.FormatBool(p.skipQuality),
		constants.ParamIncludeStress: strconv.FormatBool(p.includeStress),
		constants.ParamDisableLocal:  strconv.FormatBool(p.disableLocal),
	}
	if p.javaVersionSet {
		m[constants.ParamJavaVersion] = strconv.Itoa(p.javaVersion)
	}
	return m
}
