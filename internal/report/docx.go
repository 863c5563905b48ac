package report

import "github.com/gomutex/godocx/docx"

const (
	fontName = "Times New Roman"
	fontSize = 13
)

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addLabelled writes "label: value" with the label in bold.
func addLabelled(p *docx.Paragraph, label, value string) {
	p.AddText(label + ": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
	p.AddText(value).Font(fontName).Size(fontSize).Color("000000")
}
