package export

import "fmt"

// Dataset defines tabular export content. Rows are positional and must match Headers in length.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Validate ensures the dataset can be rendered.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}
