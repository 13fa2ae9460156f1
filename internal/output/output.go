// Package output converts scraped HTML fragments to Markdown for reports.
package output

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

var tagPattern = regexp.MustCompile(`(?s)<[a-zA-Z][^>]*>`)

// LooksLikeHTML reports whether s contains markup.
func LooksLikeHTML(s string) bool {
	return tagPattern.MatchString(s)
}

// Markdown converts an HTML fragment to Markdown. Tables are rendered as
// pipe tables. Plain text is returned trimmed.
func Markdown(html string) (string, error) {
	if !LooksLikeHTML(html) {
		return strings.TrimSpace(html), nil
	}

	withPlaceholders, tables := extractTables(html)
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(withPlaceholders)
	if err != nil {
		return "", eris.Wrap(err, "output: convert html to markdown")
	}
	for i, t := range tables {
		markdown = strings.Replace(markdown, placeholder(i), strings.TrimRight(t, "\n"), 1)
	}
	return strings.TrimSpace(markdown), nil
}

// MarkdownOrText converts html and falls back to its visible text when
// conversion fails.
func MarkdownOrText(html string) string {
	out, err := Markdown(html)
	if err == nil {
		return out
	}
	doc, derr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if derr != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var tableBlock = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)

// extractTables swaps each convertible <table> for a placeholder paragraph
// and returns the pipe tables in order.
func extractTables(htmlContent string) (string, []string) {
	var tables []string
	out := tableBlock.ReplaceAllStringFunc(htmlContent, func(t string) string {
		table := convertHTMLTableToMarkdown(t)
		if table == "" {
			return t
		}
		tables = append(tables, table)
		return "<p>" + placeholder(len(tables)-1) + "</p>"
	})
	return out, tables
}

func placeholder(i int) string {
	return fmt.Sprintf("HACKINSIGHTTABLE%dX", i)
}

func convertHTMLTableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}

	var b strings.Builder
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headerRow := table.Find("thead tr").First()
		if headerRow.Length() == 0 {
			headerRow = table.Find("tr").First()
		}
		var headers []string
		headerRow.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, cellText(cell))
		})
		if len(headers) == 0 {
			return
		}

		writeRow(&b, headers)
		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		writeRow(&b, sep)

		rows := table.Find("tbody tr")
		if rows.Length() == 0 {
			rows = table.Find("tr").Slice(1, goquery.ToEnd)
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cellText(cell))
			})
			if len(cells) > 0 {
				writeRow(&b, cells)
			}
		})
	})
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func cellText(s *goquery.Selection) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(s.Text()), " "), "|", `\|`)
}
