package transcript

import (
	"fmt"
	"time"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Render draws doc to a PDF and returns the file bytes.
func Render(doc Document) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	pdf.SetInfo(gopdf.PdfInfo{
		Title:        "Transcript " + doc.StudentCode,
		Subject:      doc.StudentName,
		Creator:      "unirecords",
		CreationDate: time.Now(),
	})

	for _, p := range layout(doc) {
		pdf.AddPage()
		for _, op := range p.ops {
			if op.text == "" {
				continue
			}
			if err := pdf.SetFont(op.font, "", op.size); err != nil {
				return nil, fmt.Errorf("set font: %w", err)
			}
			x := op.x
			if op.align == alignRight {
				w, err := pdf.MeasureTextWidth(op.text)
				if err != nil {
					return nil, fmt.Errorf("measure %q: %w", op.text, err)
				}
				x -= w
			}
			pdf.SetXY(x, op.y)
			if err := pdf.Text(op.text); err != nil {
				return nil, fmt.Errorf("draw %q: %w", op.text, err)
			}
		}
	}

	return pdf.GetBytesPdfReturnErr()
}
