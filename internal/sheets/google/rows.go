package google

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"budget/internal/core"

	gsheet "google.golang.org/api/sheets/v4"
)

// Column layout of the ledger sheet.
const (
	colID = iota
	colAccountID
	colDay
	colMonth
	colAmount
	colCurrency
	colCategory
	colDescription
	colSource
	colTimestamp
	numCols
)

var header = []any{"ID", "Account", "Day", "Month", "Amount", "Currency", "Category", "Description", "Source", "Timestamp"}

// transactionRow renders t in column order. The amount is written as a plain
// decimal so the sheet can sum it.
func transactionRow(t core.Transaction) []any {
	row := make([]any, numCols)
	row[colID] = t.ID
	row[colAccountID] = t.AccountID
	row[colDay] = t.Day
	row[colMonth] = t.Month
	row[colAmount] = t.Amount.String()
	row[colCurrency] = t.Currency
	row[colCategory] = t.Category
	row[colDescription] = t.Description
	row[colSource] = string(t.Source)
	row[colTimestamp] = t.Timestamp.Format(time.RFC3339)
	return row
}

// matchingRows returns the zero-based indexes of rows whose column col equals
// key, in descending order so that deleting them one by one keeps the
// remaining indexes valid.
func matchingRows(values [][]any, col int, key string) []int64 {
	var out []int64
	for i, row := range values {
		if col < len(row) && strings.TrimSpace(fmt.Sprint(row[col])) == key {
			out = append(out, int64(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func deleteRowRequests(sheetID int64, rows []int64) []*gsheet.Request {
	reqs := make([]*gsheet.Request, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: r,
					EndIndex:   r + 1,
					// Sheet 0 and row 0 are zero values and would be omitted.
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		})
	}
	return reqs
}

// idsOf extracts the id column, skipping the header and blank rows.
func idsOf(values [][]any) []string {
	var out []string
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[colID]))
		if id == "" || (i == 0 && id == header[colID]) {
			continue
		}
		out = append(out, id)
	}
	return out
}
