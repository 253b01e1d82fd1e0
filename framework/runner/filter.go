package runner

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter determines whether to run a specific scenario.
type Filter interface {
	Match(ScenarioID) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(ScenarioID) bool

func (f FilterFunc) Match(id ScenarioID) bool { return f(id) }

// RegexFilters selects scenarios by name, as given with the -run and -skip flags. A scenario
// runs if it matches some MustMatch pattern (or there are none) and no MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    IDPatternList
	MustNotMatch IDPatternList
}

func (r RegexFilters) Match(id ScenarioID) bool {
	if r.MustNotMatch.AnyMatch(id, false) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)
}

// IsDefined is true if either list has patterns.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// IDPattern matches a ScenarioID one path component at a time: "albums/reads" means a first
// component matching "albums" and a second matching "reads". Each regex is unanchored.
type IDPattern struct {
	source     string
	components []*regexp.Regexp
}

// ParseIDPattern compiles each slash-separated part of s.
func ParseIDPattern(s string) (IDPattern, error) {
	parts := strings.Split(s, "/")
	p := IDPattern{source: s, components: make([]*regexp.Regexp, len(parts))}
	for i, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return IDPattern{}, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		p.components[i] = rx
	}
	return p, nil
}

// Match tests id against the pattern. An id with fewer components than the pattern only
// matches when partial is true, so that -run can enter the parent scenarios of its target.
func (p IDPattern) Match(id ScenarioID, partial bool) bool {
	if len(id) < len(p.components) && !partial {
		return false
	}
	for i, component := range id {
		if i == len(p.components) {
			break
		}
		if !p.components[i].MatchString(component) {
			return false
		}
	}
	return true
}

func (p IDPattern) String() string { return p.source }

// IDPatternList is a repeatable command-line flag value.
type IDPatternList []IDPattern

func (l IDPatternList) String() string {
	quoted := make([]string, len(l))
	for i, p := range l {
		quoted[i] = fmt.Sprintf("%q", p.source)
	}
	return strings.Join(quoted, " or ")
}

// Set implements flag.Value.
func (l *IDPatternList) Set(value string) error {
	p, err := ParseIDPattern(value)
	if err == nil {
		*l = append(*l, p)
	}
	return err
}

func (l IDPatternList) IsDefined() bool { return len(l) > 0 }

func (l IDPatternList) AnyMatch(id ScenarioID, partial bool) bool {
	for _, p := range l {
		if p.Match(id, partial) {
			return true
		}
	}
	return false
}

// PrintFilterDescription tells the user which scenarios the filters will skip. It writes
// nothing if no filters are set.
func PrintFilterDescription(w io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	_, _ = fmt.Fprintln(w, "Some scenarios will be skipped based on the filter criteria for this run:")
	if filters.MustMatch.IsDefined() {
		_, _ = fmt.Fprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		_, _ = fmt.Fprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	_, _ = fmt.Fprintln(w)
}
