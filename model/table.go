package model

// TableCell is one cell of a detected table. Spans above 1 mark a cell
// whose content covers neighboring grid positions.
type TableCell struct {
	Text    string
	BBox    BBox
	RowSpan int
	ColSpan int
}

// Table is a grid of cells recovered from aligned text runs. Rows are
// ordered top to bottom and cells left to right; every row has the same
// number of cells, with empty positions holding empty cells.
type Table struct {
	Cells [][]TableCell
	BBox  BBox

	// HeaderRows is how many leading rows are column headers. Detection
	// treats the first row as the header when the table has more than
	// one row.
	HeaderRows int
}

// NewTable returns a rows-by-cols table of empty single-span cells.
func NewTable(rows, cols int) *Table {
	cells := make([][]TableCell, rows)
	for i := range cells {
		cells[i] = make([]TableCell, cols)
		for j := range cells[i] {
			cells[i][j] = TableCell{RowSpan: 1, ColSpan: 1}
		}
	}
	return &Table{Cells: cells}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Cells)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

// Cell returns the cell at the given position, or nil when out of range.
func (t *Table) Cell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Cells) || col < 0 || col >= len(t.Cells[row]) {
		return nil
	}
	return &t.Cells[row][col]
}

// HasMergedCells reports whether any cell spans more than one grid
// position.
func (t *Table) HasMergedCells() bool {
	for _, row := range t.Cells {
		for _, cell := range row {
			if cell.RowSpan > 1 || cell.ColSpan > 1 {
				return true
			}
		}
	}
	return false
}

// RowStrings returns the cell texts of one row.
func (t *Table) RowStrings(row int) []string {
	if row < 0 || row >= len(t.Cells) {
		return nil
	}
	out := make([]string, len(t.Cells[row]))
	for i, cell := range t.Cells[row] {
		out[i] = cell.Text
	}
	return out
}
