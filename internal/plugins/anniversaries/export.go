package anniversaries

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// ICSProductID identifies the exporter in the PRODID property.
const ICSProductID = "-//kinenbi//anniversaries//JA"

// icsMaxLineOctets is the RFC 5545 content line limit before folding.
const icsMaxLineOctets = 75

var icsTextEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// WriteICS writes the anniversaries as an iCalendar feed: one all-day VEVENT
// per anniversary starting on its origin date and recurring yearly. Entries
// with malformed dates are skipped. stamp fills DTSTAMP.
func WriteICS(w io.Writer, list []Anniversary, stamp time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(s string) { writeICSLine(bw, s) }

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + ICSProductID)
	line("METHOD:PUBLISH")
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:記念日")

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for _, a := range list {
		d, ok := datecalc.ParseDate(a.Date)
		if !ok {
			continue
		}
		line("BEGIN:VEVENT")
		line(fmt.Sprintf("UID:anniversary-%d@kinenbi", a.ID))
		line("DTSTAMP:" + dtstamp)
		line("DTSTART;VALUE=DATE:" + d.Time().Format("20060102"))
		line("DTEND;VALUE=DATE:" + d.AddDays(1).Time().Format("20060102"))
		line("RRULE:FREQ=YEARLY")
		line("SUMMARY:" + icsTextEscaper.Replace(a.Name))
		if a.Description != nil && *a.Description != "" {
			line("DESCRIPTION:" + icsTextEscaper.Replace(*a.Description))
		}
		if jp := datecalc.FormatJapaneseDate(d, false); jp != "" {
			line("COMMENT:" + icsTextEscaper.Replace(jp))
		}
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return bw.Flush()
}

// writeICSLine folds s into CRLF-terminated lines of at most 75 octets,
// never splitting a UTF-8 sequence. Continuation lines start with a space.
func writeICSLine(w *bufio.Writer, s string) {
	limit := icsMaxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		w.WriteString(s[:cut])
		w.WriteString("\r\n ")
		s = s[cut:]
		limit = icsMaxLineOctets - 1
	}
	w.WriteString(s)
	w.WriteString("\r\n")
}
