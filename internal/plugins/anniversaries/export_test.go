package anniversaries

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteICS(t *testing.T) {
	desc := "初デート,\n映画館"
	list := []Anniversary{
		{ID: 1, Name: "結婚記念日", Date: "2020-11-04", Description: &desc},
		{ID: 2, Name: "broken", Date: "2020-13-01"},
		{ID: 3, Name: "大晦日; 年越し", Date: "1999-12-31"},
	}
	stamp := time.Date(2025, 11, 4, 0, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteICS(&buf, list, stamp); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Errorf("missing trailer:\n%s", out)
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("got %d events, want 2 (malformed date skipped)", n)
	}
	if n := strings.Count(out, "RRULE:FREQ=YEARLY\r\n"); n != 2 {
		t.Errorf("got %d yearly rules, want 2", n)
	}

	for _, want := range []string{
		"UID:anniversary-1@kinenbi\r\n",
		"DTSTAMP:20251104T003000Z\r\n",
		"DTSTART;VALUE=DATE:20201104\r\n",
		"DTEND;VALUE=DATE:20201105\r\n",
		`DESCRIPTION:初デート\,\n映画館` + "\r\n",
		"COMMENT:令和2年11月4日\r\n",
		"DTSTART;VALUE=DATE:19991231\r\n",
		"DTEND;VALUE=DATE:20000101\r\n",
		`SUMMARY:大晦日\; 年越し` + "\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "broken") {
		t.Error("malformed anniversary was exported")
	}
}

func TestWriteICS_FoldsLongLines(t *testing.T) {
	name := strings.Repeat("記念日", 20) // 180 octets
	var buf bytes.Buffer
	if err := WriteICS(&buf, []Anniversary{{ID: 7, Name: name, Date: "2001-02-03"}}, time.Unix(0, 0)); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n") {
		if len(line) > icsMaxLineOctets {
			t.Errorf("line exceeds %d octets (%d): %q", icsMaxLineOctets, len(line), line)
		}
	}

	unfolded := strings.ReplaceAll(buf.String(), "\r\n ", "")
	if !strings.Contains(unfolded, "SUMMARY:"+name+"\r\n") {
		t.Error("unfolding did not restore the summary")
	}
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, nil, time.Unix(0, 0)); err != nil {
		t.Fatalf("WriteICS: %v", err)
	}
	if strings.Contains(buf.String(), "VEVENT") {
		t.Error("expected no events")
	}
}
