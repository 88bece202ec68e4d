package omodel

import (
	"fmt"
	"strconv"
)

const (
	NamingLetter = "letter"
	NamingNumber = "number"
)

// WellPosition renders a zero-based row and column the way the plate names
// them. Rows default to letters and columns to 1-based numbers.
func WellPosition(row, column int, rowNaming, columnNaming string) string {
	if rowNaming == "" {
		rowNaming = NamingLetter
	}

	if columnNaming == "" {
		columnNaming = NamingNumber
	}

	return positionLabel(row, rowNaming) + positionLabel(column, columnNaming)
}

func positionLabel(index int, naming string) string {
	if naming == NamingLetter {
		return letters(index)
	}

	return strconv.Itoa(index + 1)
}

// letters maps 0 to A, 25 to Z, 26 to AA and so on.
func letters(index int) string {
	if index < 0 {
		return strconv.Itoa(index + 1)
	}

	label := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}

	return label
}

// WellName is how a well is labelled in search results: its plate name plus its
// position, e.g. "Plate 1 - B3".
func WellName(plateName string, row, column int, rowNaming, columnNaming string) string {
	return fmt.Sprintf("%s - %s", plateName, WellPosition(row, column, rowNaming, columnNaming))
}
