// Package cubelist parses organizer-supplied cube lists.
package cubelist

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxCopies caps the quantity on a single line.
	MaxCopies = 100

	// DefaultMaxCards caps the expanded list when no limit is given.
	DefaultMaxCards = 2000
)

// ErrTooLarge is returned when a line or the whole list exceeds the caps.
var ErrTooLarge = errors.New("cube list too large")

// Entry is one parsed line of a cube list.
type Entry struct {
	Quantity int
	Name     string
	SetCode  string // optional, from "Lightning Bolt (M21)"
	Line     int
}

// Ref is the name used to resolve the entry: "Name (SET)" when a printing
// was given, else the bare name.
func (e *Entry) Ref() string {
	if e.SetCode == "" {
		return e.Name
	}
	return e.Name + " (" + e.SetCode + ")"
}

// List is a parsed cube list.
type List struct {
	Entries  []*Entry
	Warnings []string
}

var (
	// "4 Lightning Bolt", "4x Lightning Bolt", "4 Lightning Bolt (M21) 123"
	quantityFirst = regexp.MustCompile(`^(\d+)x?\s+(.+)$`)
	// "Lightning Bolt x4"
	quantityLast = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
	// trailing "(SET)" or "(SET) 123"
	setSuffix = regexp.MustCompile(`^(.+?)\s+\(([A-Za-z0-9]+)\)(?:\s+\S+)?$`)
)

// SplitPrinting separates a trailing "(SET)" or "(SET) 123" from a card
// name. The set code is upper-cased and empty when absent.
func SplitPrinting(s string) (name, setCode string) {
	s = strings.TrimSpace(s)
	if m := setSuffix.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.ToUpper(m[2])
	}
	return s, ""
}

// Parse reads a cube list of at most DefaultMaxCards cards.
func Parse(input string) (*List, error) {
	return ParseLimit(input, DefaultMaxCards)
}

// ParseLimit reads a cube list whose expanded size may not exceed maxCards
// (DefaultMaxCards when maxCards is not positive). Blank lines and lines
// starting with "#" or "//" are skipped; a bare name counts once.
func ParseLimit(input string, maxCards int) (*List, error) {
	if maxCards <= 0 {
		maxCards = DefaultMaxCards
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty cube list")
	}

	list := &List{Entries: make([]*Entry, 0)}
	total := 0

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		quantity, name, err := splitQuantity(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		entry := &Entry{Quantity: quantity, Line: i + 1}
		entry.Name, entry.SetCode = SplitPrinting(name)

		if quantity <= 0 {
			list.Warnings = append(list.Warnings,
				fmt.Sprintf("Line %d: ignoring '%s' with quantity %d", i+1, entry.Name, quantity))
			continue
		}
		if total += quantity; total > maxCards {
			return nil, fmt.Errorf("%w: more than %d cards (line %d)", ErrTooLarge, maxCards, i+1)
		}
		list.Entries = append(list.Entries, entry)
	}

	if len(list.Entries) == 0 {
		return nil, fmt.Errorf("no cards found in cube list")
	}
	return list, nil
}

func splitQuantity(line string) (int, string, error) {
	digits, name := "", line
	if m := quantityFirst.FindStringSubmatch(line); m != nil {
		digits, name = m[1], m[2]
	} else if m := quantityLast.FindStringSubmatch(line); m != nil {
		digits, name = m[2], m[1]
	}
	if digits == "" {
		return 1, name, nil
	}

	q, err := strconv.Atoi(digits)
	if err != nil || q > MaxCopies {
		return 0, "", fmt.Errorf("%w: quantity %s above %d", ErrTooLarge, digits, MaxCopies)
	}
	return q, name, nil
}

// Names expands the list to one reference per copy, in list order. Entries
// naming a printing keep it as "Name (SET)".
func (l *List) Names() []string {
	names := make([]string, 0, l.Size())
	for _, e := range l.Entries {
		for i := 0; i < e.Quantity; i++ {
			names = append(names, e.Ref())
		}
	}
	return names
}

// Size returns the total number of cards.
func (l *List) Size() int {
	n := 0
	for _, e := range l.Entries {
		n += e.Quantity
	}
	return n
}
