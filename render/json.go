package render

import (
	"encoding/json"
	"fmt"

	"github.com/scribadev/scriba/model"
)

type jsonDocument struct {
	Pages []jsonPage `json:"pages"`
}

type jsonPage struct {
	Index  int         `json:"index"`
	Blocks []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Text string     `json:"text"`
	BBox [4]float64 `json:"bbox"`
	Role string     `json:"role"`

	// Rows carries the cell grid for table blocks and is omitted
	// everywhere else.
	Rows [][]string `json:"rows,omitempty"`
}

// JSON renders pages as a structured document. Each page carries its
// zero-based index and its blocks with text, bounding box as
// [x, y, width, height] in page points, and role; table blocks add their
// cell grid under "rows". The pretty flag switches to indented output; the
// structure is identical either way.
func JSON(pages []*model.Page, pretty bool) (string, error) {
	doc := jsonDocument{Pages: make([]jsonPage, len(pages))}
	for i, page := range pages {
		jp := jsonPage{Index: i, Blocks: make([]jsonBlock, len(page.Blocks))}
		for j, block := range page.Blocks {
			jb := jsonBlock{
				Text: block.Text(),
				BBox: [4]float64{block.BBox.X, block.BBox.Y, block.BBox.Width, block.BBox.Height},
				Role: block.Role.String(),
			}
			if block.Role == model.RoleTable && block.Table != nil {
				jb.Rows = make([][]string, block.Table.RowCount())
				for r := range jb.Rows {
					jb.Rows[r] = block.Table.RowStrings(r)
				}
			}
			jp.Blocks[j] = jb
		}
		doc.Pages[i] = jp
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("encoding document to JSON: %w", err)
	}
	return string(data), nil
}
