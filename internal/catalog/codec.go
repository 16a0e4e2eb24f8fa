package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"online-judge/internal/domain"
)

const (
	fieldSep = "|"
	inputSep = ","
	fieldCnt = 5
)

// EncodeRecord renders a problem as one catalog line, newline included.
// Delimiters inside fields are written as-is; callers must keep them out.
func EncodeRecord(p domain.Problem) string {
	inputs := make([]string, len(p.Inputs))
	for i, v := range p.Inputs {
		inputs[i] = strconv.Itoa(v)
	}
	return strings.Join([]string{
		p.Title,
		p.Description,
		string(p.Difficulty),
		strings.Join(inputs, inputSep),
		strconv.Itoa(p.ExpectedOutput),
	}, fieldSep) + "\n"
}

// DecodeRecord parses a single catalog line (without its trailing newline).
func DecodeRecord(line string) (domain.Problem, error) {
	parts := strings.Split(line, fieldSep)
	if len(parts) != fieldCnt {
		return domain.Problem{}, fmt.Errorf("expected %d fields, got %d", fieldCnt, len(parts))
	}

	inputs, err := ParseInputs(parts[3])
	if err != nil {
		return domain.Problem{}, err
	}
	expected, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return domain.Problem{}, fmt.Errorf("expected output: %w", err)
	}

	return domain.Problem{
		Title:          parts[0],
		Description:    parts[1],
		Difficulty:     domain.Difficulty(parts[2]),
		Inputs:         inputs,
		ExpectedOutput: expected,
	}, nil
}

// ParseInputs parses a comma separated integer list. Tokens are trimmed and an
// empty (or all-blank) list yields no inputs.
func ParseInputs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return []int{}, nil
	}
	tokens := strings.Split(raw, inputSep)
	out := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

var errDelimiter = errors.New("field contains a catalog delimiter")

// CheckFields rejects text fields that would corrupt the line format.
func CheckFields(p domain.Problem) error {
	for name, v := range map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"difficulty":  string(p.Difficulty),
	} {
		if strings.ContainsAny(v, fieldSep+"\r\n") {
			return fmt.Errorf("%s: %w", name, errDelimiter)
		}
	}
	return nil
}
