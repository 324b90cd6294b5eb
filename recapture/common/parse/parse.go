package parse

import (
	"strconv"
	"strings"

	"github.com/drausin/recapture/recapture/common/errors"
)

// Counts holds the observed counts of a single group: the number of individuals caught and how
// many of them carried a tag.
type Counts struct {
	Trials    int64
	Successes int64
}

// Group parses a "trials:successes" string, e.g., "219:16".
func Group(group string) (*Counts, error) {
	parts := strings.Split(strings.TrimSpace(group), ":")
	if len(parts) != 2 {
		return nil, errors.NewInvalidParameterError("group", group,
			"must have the form trials:successes")
	}
	trials, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return nil, errors.NewInvalidParameterError("group", group, "has non-integer trials")
	}
	successes, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return nil, errors.NewInvalidParameterError("group", group,
			"has non-integer successes")
	}
	return &Counts{Trials: trials, Successes: successes}, nil
}

// Groups parses an array of groups, each either a single "trials:successes" string or several
// separated by commas or whitespace.
func Groups(groups []string) ([]*Counts, error) {
	counts := make([]*Counts, 0, len(groups))
	for _, g := range groups {
		for _, field := range strings.FieldsFunc(g, isSeparator) {
			c, err := Group(field)
			if err != nil {
				return nil, err
			}
			counts = append(counts, c)
		}
	}
	return counts, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\n'
}
