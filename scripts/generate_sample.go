//go:build ignore
// +build ignore

// Writes a sample transaction workbook for trying tally against a local
// backend: go run scripts/generate_sample.go -o sample.xlsx
package main

import (
	"flag"
	"fmt"
	"log"
	mrand "math/rand"
	"time"

	"github.com/xuri/excelize/v2"
)

var merchants = []string{
	"Dorm A Shower", "Dorm B Shower", "Canteen 1", "Canteen 2",
	"Library Cafe", "Campus Market", "Print Shop",
}

func main() {
	out := flag.String("o", "sample.xlsx", "output workbook")
	rows := flag.Int("n", 500, "number of transactions")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	// A title row above the header, as bank exports have.
	_ = f.SetCellValue(sheet, "A1", "Campus card statement")
	header := []any{"交易时间", "交易地点", "交易事件", "交易金额"}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		log.Fatal(err)
	}

	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	for i := 0; i < *rows; i++ {
		day := mr.Intn(28)
		hour := 6 + mr.Intn(17)
		ts := base.Add(time.Duration(day)*24*time.Hour +
			time.Duration(hour)*time.Hour +
			time.Duration(mr.Intn(60))*time.Minute)

		merchant := merchants[mr.Intn(len(merchants))]
		event := "消费"
		amount := 2 + mr.Float64()*28
		if mr.Float64() < 0.05 {
			event = "充值"
			amount = float64(50 * (1 + mr.Intn(4)))
		}

		row := []any{ts.Format("2006-01-02 15:04:05"), merchant, event, fmt.Sprintf("%.2f", amount)}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Fatal(err)
		}
	}

	if err := f.SaveAs(*out); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %d transactions to %s\n", *rows, *out)
}
