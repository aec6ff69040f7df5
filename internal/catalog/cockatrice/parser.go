// Package cockatrice imports card databases in the Cockatrice XML format
// (versions 3 and 4).
package cockatrice

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// ErrInvalidDatabase is returned when the document is not a usable card database.
var ErrInvalidDatabase = errors.New("invalid cockatrice card database")

type database struct {
	XMLName xml.Name   `xml:"cockatrice_carddatabase"`
	Version string     `xml:"version,attr"`
	Sets    *setsNode  `xml:"sets"`
	Cards   *cardsNode `xml:"cards"`
}

type setsNode struct {
	Sets []setNode `xml:"set"`
}

type setNode struct {
	Name        string `xml:"name"`
	LongName    string `xml:"longname"`
	SetType     string `xml:"settype"`
	ReleaseDate string `xml:"releasedate"`
}

type cardsNode struct {
	Cards []cardNode `xml:"card"`
}

type cardNode struct {
	Name      string     `xml:"name"`
	Text      string     `xml:"text"`
	Printings []printing `xml:"set"`
	Prop      properties `xml:"prop"`

	// Version 3 keeps the properties directly on the card.
	properties
}

type properties struct {
	Type     string   `xml:"type"`
	ManaCost string   `xml:"manacost"`
	CMC      string   `xml:"cmc"`
	Color    []string `xml:"color"`
	Colors   string   `xml:"colors"`
	Layout   string   `xml:"layout"`
	Loyalty  string   `xml:"loyalty"`
	PT       string   `xml:"pt"`
	Side     string   `xml:"side"`
}

type printing struct {
	Code    string `xml:",chardata"`
	Rarity  string `xml:"rarity,attr"`
	Num     string `xml:"num,attr"`
	PicURL  string `xml:"picurl,attr"`
	PicURL2 string `xml:"picURL,attr"`
}

// ParseFile parses the database at path.
func ParseFile(path string) ([]*catalog.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card database: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a Cockatrice card database. Sets come back in document order;
// set codes referenced by cards but missing from <sets> become bare sets
// named after their code. Each <set> printing of a card yields one card;
// an identical printing listed twice is kept once.
func Parse(r io.Reader) ([]*catalog.Set, error) {
	var db database
	if err := xml.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("%w: root node <cockatrice_carddatabase> must be present: %v", ErrInvalidDatabase, err)
	}
	if db.Cards == nil {
		return nil, fmt.Errorf("%w: node <cards> must be present", ErrInvalidDatabase)
	}

	var (
		sets   []*catalog.Set
		byCode = make(map[string]*catalog.Set)
	)
	addSet := func(set *catalog.Set) {
		sets = append(sets, set)
		byCode[set.Code] = set
	}

	if db.Sets != nil {
		if len(db.Sets.Sets) == 0 {
			return nil, fmt.Errorf("%w: node <sets> must be made of <set>", ErrInvalidDatabase)
		}
		for _, s := range db.Sets.Sets {
			code := strings.TrimSpace(s.Name)
			if code == "" {
				return nil, fmt.Errorf("%w: <set> must contain a name", ErrInvalidDatabase)
			}
			if _, dup := byCode[code]; dup {
				continue
			}
			addSet(&catalog.Set{
				Code:        code,
				Name:        strings.TrimSpace(s.LongName),
				Type:        strings.TrimSpace(s.SetType),
				ReleaseDate: catalog.ParseReleaseDate(strings.TrimSpace(s.ReleaseDate)),
			})
		}
	}

	if len(db.Cards.Cards) == 0 {
		return nil, fmt.Errorf("%w: node <cards> must contain <card>", ErrInvalidDatabase)
	}

	v3 := db.Version == "3"
	seen := make(map[string]bool)
	for i, c := range db.Cards.Cards {
		if len(c.Printings) == 0 {
			return nil, fmt.Errorf("%w: card %d (%q) has no <set>", ErrInvalidDatabase, i+1, c.Name)
		}
		props := c.Prop
		if v3 {
			props = c.properties
		}

		for _, p := range c.Printings {
			code := strings.TrimSpace(p.Code)
			if code == "" {
				return nil, fmt.Errorf("%w: <set> of card %q must contain a value", ErrInvalidDatabase, c.Name)
			}
			rarity, err := catalog.ParseRarity(p.Rarity)
			if err != nil {
				return nil, fmt.Errorf("%w: card %q: %v", ErrInvalidDatabase, c.Name, err)
			}

			// Repeated printings would collide on card id.
			key := fmt.Sprintf("%s|%s|%d", code, c.Name, printingNumber(p))
			if seen[key] {
				continue
			}
			seen[key] = true

			set, ok := byCode[code]
			if !ok {
				set = &catalog.Set{Code: code, Name: code}
				addSet(set)
			}
			set.Cards = append(set.Cards, buildCard(c, props, p, rarity))
		}
	}

	return sets, nil
}

func buildCard(c cardNode, props properties, p printing, rarity catalog.Rarity) *catalog.Card {
	layout := strings.TrimSpace(props.Layout)
	if layout == "" {
		layout = "normal"
	}
	side := strings.TrimSpace(props.Side)
	if side == "" {
		side = "a"
	}
	typeLine := mainType(props.Type)
	power, toughness := splitPT(props.PT)
	cmc, _ := strconv.ParseFloat(strings.TrimSpace(props.CMC), 64)

	url := p.PicURL
	if url == "" {
		url = p.PicURL2
	}
	return &catalog.Card{
		Name:      c.Name,
		Names:     splitNames(layout, c.Name),
		SetCode:   strings.TrimSpace(p.Code),
		Number:    printingNumber(p),
		ManaCost:  bracketManaCost(strings.TrimSpace(props.ManaCost)),
		CMC:       cmc,
		Type:      typeLine,
		Types:     []string{typeLine},
		Rarity:    rarity,
		Power:     power,
		Toughness: toughness,
		Loyalty:   strings.TrimSpace(props.Loyalty),
		Colors:    splitColors(props.Color, props.Colors),
		Layout:    layout,
		Side:      side,
		Text:      c.Text,
		ImageURL:  url,
	}
}

func printingNumber(p printing) int {
	if n := leadingInt(p.Num); n != nil {
		return *n
	}
	return 0
}

func splitNames(layout, name string) []string {
	l := strings.ToLower(layout)
	if strings.Contains(l, "split") || strings.Contains(l, "aftermath") || strings.Contains(l, "adventure") {
		return strings.Split(name, " // ")
	}
	return []string{name}
}

// mainType strips the subtypes: "Creature - Elf Druid" becomes "Creature".
func mainType(typeLine string) string {
	if i := strings.IndexAny(typeLine, "-—"); i >= 0 {
		typeLine = typeLine[:i]
	}
	return strings.TrimSpace(typeLine)
}

func splitPT(pt string) (power, toughness *int) {
	if pt == "" {
		return nil, nil
	}
	p, t, _ := strings.Cut(pt, "/")
	return leadingInt(p), leadingInt(t)
}

// leadingInt parses the integer prefix of s, so "1+*" is 1. It returns nil
// when s does not start with a number.
func leadingInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// splitColors accepts both repeated <color> elements and a packed "WU" string.
func splitColors(v3 []string, v4 string) []string {
	colors := []string{}
	add := func(s string) {
		for _, r := range s {
			if !unicode.IsSpace(r) {
				colors = append(colors, string(r))
			}
		}
	}
	for _, s := range v3 {
		add(s)
	}
	add(v4)
	return colors
}

// bracketManaCost turns "2WU" into "{2}{W}{U}". Hybrid symbols stay whole
// ("W/U" becomes "{W/U}") and "//" separates the halves of a split card.
// Costs that already use braces are returned unchanged.
func bracketManaCost(cost string) string {
	if cost == "" || strings.ContainsRune(cost, '{') {
		return cost
	}

	rs := []rune(cost)
	var b strings.Builder
	for i := 0; i < len(rs); {
		switch {
		case unicode.IsSpace(rs[i]):
			i++
		case rs[i] == '/' && i+1 < len(rs) && rs[i+1] == '/':
			b.WriteString(" // ")
			i += 2
		case rs[i] == '/':
			i++
		case i+2 < len(rs) && rs[i+1] == '/' && rs[i+2] != '/' && !unicode.IsSpace(rs[i+2]):
			b.WriteString("{" + string(rs[i:i+3]) + "}")
			i += 3
		case unicode.IsDigit(rs[i]):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			b.WriteString("{" + string(rs[i:j]) + "}")
			i = j
		default:
			b.WriteString("{" + string(rs[i]) + "}")
			i++
		}
	}
	if b.Len() == 0 {
		return cost
	}
	return b.String()
}
