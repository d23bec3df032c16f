package payroll

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWriteCSV(t *testing.T) {
	rows := []ExportRow{
		{
			EmployeeNumber: "EMP-000001",
			EmployeeName:   "张三",
			Period:         "2025-07",
			LegalWorkdays:  22,
			ActualWorkdays: 21.5,
			RemoteHours:    8,
			TravelDays:     1,
			Total:          decimal.NewFromFloat(6430),
		},
		{
			EmployeeNumber: "EMP-000002",
			EmployeeName:   "李四",
			Period:         "2025-07",
			LegalWorkdays:  22,
			ActualWorkdays: 22,
			Total:          decimal.NewFromFloat(5000.505),
		},
	}

	var buf bytes.Buffer
	err := WriteCSV(&buf, rows)
	assert.NoError(t, err)

	raw := buf.Bytes()
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "file must start with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	assert.Equal(t, []string{"工号", "姓名", "月份", "法定日", "线下日", "线上时", "出差天", "合计"}, records[0])
	assert.Equal(t, []string{"EMP-000001", "张三", "2025-07", "22", "21.5", "8", "1", "6430.00"}, records[1])
	assert.Equal(t, "5000.51", records[2][7], "totals are rounded to two decimal places")
}

func TestWriteCSV_EmptyPeriodStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
