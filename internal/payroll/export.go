package payroll

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// utf8BOM makes Excel open the file as UTF-8 instead of guessing a legacy
// codepage, which would mangle the Chinese header.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"工号", "姓名", "月份", "法定日", "线下日", "线上时", "出差天", "合计"}

// ExportRow is one settlement line: the employee's claimed quantities plus
// the computed total. Day and hour counts are echoed as entered; only the
// money column is rounded.
type ExportRow struct {
	EmployeeNumber string
	EmployeeName   string
	Period         string
	LegalWorkdays  float64
	ActualWorkdays float64
	RemoteHours    float64
	TravelDays     float64
	Total          decimal.Decimal
}

func WriteCSV(w io.Writer, rows []ExportRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.EmployeeNumber,
			row.EmployeeName,
			row.Period,
			formatCount(row.LegalWorkdays),
			formatCount(row.ActualWorkdays),
			formatCount(row.RemoteHours),
			formatCount(row.TravelDays),
			row.Total.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
