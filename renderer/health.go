package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/harvest"
	md "github.com/nao1215/markdown"
)

// HealthMarkdown renders the data health report. Acknowledged issues are
// listed but no longer block.
func HealthMarkdown(r harvest.HealthReport, acks harvest.Acknowledgements) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Data Health")
	if r.Clear() {
		doc.PlainText(fmt.Sprintf("All %d symbols passed: lots reconcile with holdings.", r.Checked))
		warningsSection(doc, r.Warnings)
		return doc.String()
	}

	pending := len(r.Pending(acks))
	if pending > 0 {
		doc.PlainText(md.Bold(fmt.Sprintf("%d blocking issue(s) must be fixed or acknowledged before any plan is produced.", pending)))
	} else {
		doc.PlainText("Every issue has been acknowledged, plans are unblocked.")
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft,
		},
		Header: []string{"Symbol", "Issue", "Holding Qty", "Lot Qty", "Status", "Detail"},
		Rows:   [][]string{},
	}
	for _, issue := range r.Issues {
		status := "blocking"
		if acks.Has(issue) {
			status = "acknowledged"
		}
		table.Rows = append(table.Rows, []string{
			issue.Symbol,
			issue.Kind.String(),
			issue.HoldingQuantity.String(),
			issue.LotQuantity.String(),
			status,
			cell(issue.Detail),
		})
	}
	doc.Table(table)
	warningsSection(doc, r.Warnings)
	return doc.String()
}
