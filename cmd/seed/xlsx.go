package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column order of the catalog sheet. The first row is a header.
const (
	colName = iota
	colDescription
	colPrice
	colStock
	minColumns
)

// readProductsFromXLSX reads the first sheet. Rows without a name, with an
// unparsable price or a negative stock are skipped and counted.
func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	skipped := 0
	for _, row := range rows[1:] {
		product, ok := parseProductRow(row)
		if !ok {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped, nil
}

func parseProductRow(row []string) (model.Product, bool) {
	if len(row) < minColumns {
		return model.Product{}, false
	}

	name := strings.TrimSpace(row[colName])
	if name == "" {
		return model.Product{}, false
	}

	// accept "12,50" as well as "12.50"
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[colPrice]), ",", "."))
	if err != nil || price.IsNegative() {
		return model.Product{}, false
	}

	stock, err := strconv.Atoi(strings.TrimSpace(row[colStock]))
	if err != nil || stock < 0 {
		return model.Product{}, false
	}

	return model.Product{
		Name:        name,
		Description: strings.TrimSpace(row[colDescription]),
		Price:       price.Round(2),
		Stock:       stock,
	}, true
}
