// Package urlhash parses launchpad style URL hashes of the form
// "#SemanticObject-action~context?p1=a&p2=b&/app/specific/route".
package urlhash

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

const appRouteSeparator = "&/"

var ErrInvalidShellHash = errors.New("invalid shell hash")

type ShellHash struct {
	SemanticObject string
	Action         string
	ContextRaw     string
	Params         url.Values
	// AppSpecificRoute keeps its leading "&/".
	AppSpecificRoute string
}

func Parse(hash string) (*ShellHash, error) {
	rest := strings.TrimPrefix(hash, "#")
	parsed := &ShellHash{Params: url.Values{}}

	if i := strings.Index(rest, appRouteSeparator); i >= 0 {
		parsed.AppSpecificRoute = rest[i:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		params, err := url.ParseQuery(rest[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidShellHash, err)
		}
		parsed.Params = params
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '~'); i >= 0 {
		parsed.ContextRaw = rest[i+1:]
		rest = rest[:i]
	}
	if rest == "" {
		return parsed, nil
	}
	semanticObject, action, ok := strings.Cut(rest, "-")
	if !ok || semanticObject == "" || action == "" {
		return nil, fmt.Errorf("%w: %q has no semantic object and action", ErrInvalidShellHash, hash)
	}
	parsed.SemanticObject = semanticObject
	parsed.Action = action
	return parsed, nil
}

func (h *ShellHash) String() string {
	var b strings.Builder
	if h.SemanticObject != "" {
		b.WriteString(h.SemanticObject)
		b.WriteByte('-')
		b.WriteString(h.Action)
	}
	if h.ContextRaw != "" {
		b.WriteByte('~')
		b.WriteString(h.ContextRaw)
	}
	if len(h.Params) > 0 {
		b.WriteByte('?')
		b.WriteString(h.Params.Encode())
	}
	b.WriteString(h.AppSpecificRoute)
	return b.String()
}

// SameTarget reports whether both hashes only differ in their parameters and
// app specific route.
func (h *ShellHash) SameTarget(other *ShellHash) bool {
	return h.SemanticObject == other.SemanticObject &&
		h.Action == other.Action &&
		h.ContextRaw == other.ContextRaw
}

// Parameter returns the values of a parameter, nil when it is absent.
func (h *ShellHash) Parameter(name string) []string {
	values, ok := h.Params[name]
	if !ok {
		return nil
	}
	return slices.Clone(values)
}

func (h *ShellHash) HasParameter(name string) bool {
	_, ok := h.Params[name]
	return ok
}

// SetParameter replaces the values of a parameter. No values remove it.
func (h *ShellHash) SetParameter(name string, values []string) {
	if len(values) == 0 {
		h.Params.Del(name)
		return
	}
	h.Params[name] = slices.Clone(values)
}

// Route returns the app specific route without its leading "&/".
func (h *ShellHash) Route() string {
	return strings.TrimPrefix(h.AppSpecificRoute, appRouteSeparator)
}
