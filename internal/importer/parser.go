// Package importer loads labels and contents from a markdown outline.
//
// An outline groups bullet items under level-one headings:
//
//	# Math {#ff0000}
//	- Derivatives
//	- Integrals,
//	  by parts
//
//	# Physics
//	- Kinematics
//
// Each heading names a label, with an optional {#RRGGBB} color suffix. Each
// bullet ("-" or "*") is the title of one content; indented lines continue
// the previous bullet.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const headingPrefix = "# "

var colorSuffix = regexp.MustCompile(`^(.*?)\s*\{(#[0-9A-Fa-f]{6})\}$`)

// Item is one bullet of the outline.
type Item struct {
	Title string
	Line  int
}

// Section is a heading and the items below it.
type Section struct {
	Label string
	Color string
	Line  int
	Items []Item
}

// Outline is a parsed import file. Errors holds the lines that could not be
// placed, such as a bullet before the first heading.
type Outline struct {
	Sections []Section
	Errors   []error
}

// LineError is a problem tied to one line of the input.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type state int

const (
	seeking state = iota
	inSection
	readingItem
)

// ParseFile reads the outline at path.
func ParseFile(path string) (*Outline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads an outline from r.
func Parse(r io.Reader) (*Outline, error) {
	scanner := bufio.NewScanner(r)
	out := &Outline{}
	var section *Section
	var block []string
	var itemLine int
	currentState := seeking

	finishItem := func() {
		if currentState == readingItem && section != nil {
			title := strings.Join(block, " ")
			if title != "" {
				section.Items = append(section.Items, Item{Title: title, Line: itemLine})
			}
			currentState = inSection
		}
		block = nil
	}

	finishSection := func() {
		finishItem()
		if section != nil {
			out.Sections = append(out.Sections, *section)
		}
		section = nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimLeft(line, " \t")

		switch {
		case line == "#" || strings.HasPrefix(line, headingPrefix):
			finishSection()
			name, color := splitHeading(strings.TrimSpace(line[1:]))
			if name == "" {
				out.Errors = append(out.Errors, &LineError{Line: lineNo, Msg: "empty label name"})
				currentState = seeking
				continue
			}
			section = &Section{Label: name, Color: color, Line: lineNo}
			currentState = inSection

		case line == trimmed && isBullet(line):
			finishItem()
			if section == nil {
				out.Errors = append(out.Errors, &LineError{Line: lineNo, Msg: "item outside of a label section"})
				continue
			}
			currentState = readingItem
			itemLine = lineNo
			block = append(block, strings.TrimSpace(line[1:]))

		case trimmed == "":
			finishItem()

		case currentState == readingItem && line != trimmed:
			block = append(block, trimmed)
		}
	}

	finishSection()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || line == "-" || line == "*"
}

func splitHeading(s string) (name, color string) {
	if m := colorSuffix.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}
	return s, ""
}
