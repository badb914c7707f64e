package calendar

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

const pageStyle = `body{font-family:sans-serif;margin:1.5rem}
table{border-collapse:collapse;width:100%;table-layout:fixed}
th,td{border:1px solid #ccc;vertical-align:top;padding:.25rem;height:5rem}
td.other{color:#aaa;background:#fafafa}
td.today{outline:2px solid #e67e22}
.sun,.holiday .day{color:#c0392b}
.sat{color:#2c5aa0}
ul{margin:.25rem 0 0;padding-left:1rem;font-size:.8rem}
li.anniversary{color:#8e44ad}
nav{display:flex;gap:1rem;align-items:baseline}`

// MonthPage renders a complete HTML page for one month grid.
func MonthPage(data *MonthPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"ja\"><head><meta charset=\"utf-8\">")
		fmt.Fprintf(&b, "<title>%s</title>", templ.EscapeString(data.monthTitle()))
		b.WriteString("<style>" + pageStyle + "</style></head><body>")
		fmt.Fprintf(&b, "<header><p>%s</p></header>", templ.EscapeString(data.Header))

		b.WriteString("<nav>")
		fmt.Fprintf(&b, `<a href="%s">&laquo;</a>`, monthHref(data.Prev))
		fmt.Fprintf(&b, "<h1>%s</h1>", templ.EscapeString(data.monthTitle()))
		fmt.Fprintf(&b, `<a href="%s">&raquo;</a>`, monthHref(data.Next))
		b.WriteString("</nav>")

		writeGrid(&b, data)
		b.WriteString("</body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func monthHref(d datecalc.Date) string {
	return fmt.Sprintf("/calendar?year=%d&amp;month=%d", d.Year(), int(d.Month()))
}

func writeGrid(b *strings.Builder, data *MonthPageData) {
	b.WriteString("<table><thead><tr>")
	for i, name := range data.Weekdays {
		class := ""
		switch i {
		case 0:
			class = ` class="sun"`
		case 6:
			class = ` class="sat"`
		}
		fmt.Fprintf(b, "<th%s>%s</th>", class, templ.EscapeString(name))
	}
	b.WriteString("</tr></thead><tbody>")

	for i, cell := range data.View.Cells {
		if i%7 == 0 {
			b.WriteString("<tr>")
		}
		writeCell(b, cell)
		if i%7 == 6 {
			b.WriteString("</tr>")
		}
	}
	b.WriteString("</tbody></table>")
}

func cellClasses(cell datecalc.CalendarCell) string {
	var classes []string
	if !cell.IsCurrentMonth {
		classes = append(classes, "other")
	}
	if cell.IsToday {
		classes = append(classes, "today")
	}
	if cell.IsSunday {
		classes = append(classes, "sun")
	}
	if cell.IsSaturday {
		classes = append(classes, "sat")
	}
	if len(cell.Holidays) > 0 {
		classes = append(classes, "holiday")
	}
	return strings.Join(classes, " ")
}

func writeCell(b *strings.Builder, cell datecalc.CalendarCell) {
	fmt.Fprintf(b, `<td data-date="%s"`, templ.EscapeString(cell.Date))
	if classes := cellClasses(cell); classes != "" {
		fmt.Fprintf(b, ` class="%s"`, classes)
	}
	fmt.Fprintf(b, `><span class="day">%d</span>`, cell.DayOfMonth)

	if len(cell.Holidays) == 0 && len(cell.Anniversaries) == 0 {
		b.WriteString("</td>")
		return
	}
	b.WriteString("<ul>")
	for _, h := range cell.Holidays {
		fmt.Fprintf(b, `<li class="holiday">%s</li>`, templ.EscapeString(h.Name))
	}
	for _, a := range cell.Anniversaries {
		fmt.Fprintf(b, `<li class="anniversary">%s</li>`, templ.EscapeString(a.Name))
	}
	b.WriteString("</ul></td>")
}

// ErrorPage renders a minimal HTML error page.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<!DOCTYPE html>\n<html lang=\"ja\"><head><meta charset=\"utf-8\"><title>%d</title></head>"+
				"<body><h1>%d</h1><p>%s</p><p><a href=\"/calendar\">カレンダーへ戻る</a></p></body></html>",
			code, code, templ.EscapeString(message))
		return err
	})
}
