package deck

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	ydkMain  = "#main"
	ydkExtra = "#extra"
	ydkSide  = "!side"
)

// WriteYDK writes lists in the .ydk format, one passcode per copy.
func WriteYDK(w io.Writer, l Lists, creator string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#created by %s\n", creator)
	sections := []struct {
		header string
		list   []CardRef
	}{
		{ydkMain, l.Main},
		{ydkExtra, l.Extra},
		{ydkSide, l.Side},
	}
	for _, s := range sections {
		fmt.Fprintln(bw, s.header)
		for _, ref := range s.list {
			for i := 0; i < ref.Quantity; i++ {
				fmt.Fprintln(bw, ref.ID)
			}
		}
	}
	return bw.Flush()
}

// ImportResult holds the parsed lists and non-fatal problems found on the way.
type ImportResult struct {
	Lists    Lists    `json:"lists"`
	Warnings []string `json:"warnings,omitempty"`
}

// ParseYDK reads a .ydk file. Repeated passcodes are counted in first-seen order.
// Lines before any section header count toward the main deck.
func ParseYDK(r io.Reader) (ImportResult, error) {
	var res ImportResult
	zone := ZoneMain
	counts := map[Zone]map[string]int{ZoneMain: {}, ZoneExtra: {}, ZoneSide: {}}
	order := map[Zone][]string{}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, ydkMain):
			zone = ZoneMain
		case strings.EqualFold(line, ydkExtra):
			zone = ZoneExtra
		case strings.EqualFold(line, ydkSide):
			zone = ZoneSide
		case strings.HasPrefix(line, "#"):
			continue
		case isPasscode(line):
			id := strings.TrimLeft(line, "0")
			if id == "" {
				id = "0"
			}
			if counts[zone][id] == 0 {
				order[zone] = append(order[zone], id)
			}
			counts[zone][id]++
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: unrecognized entry %q", lineNo, line))
		}
	}
	if err := sc.Err(); err != nil {
		return ImportResult{}, fmt.Errorf("read ydk: %w", err)
	}

	build := func(z Zone) []CardRef {
		out := make([]CardRef, 0, len(order[z]))
		for _, id := range order[z] {
			out = append(out, CardRef{ID: id, Quantity: counts[z][id]})
		}
		return out
	}
	res.Lists = Lists{Main: build(ZoneMain), Extra: build(ZoneExtra), Side: build(ZoneSide)}
	return res, nil
}

func isPasscode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
