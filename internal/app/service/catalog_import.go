package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductSheetColumns is the header row expected by ParseProductSheet.
// Sizes, colors, tags and image URLs are comma separated in their cell.
var ProductSheetColumns = []string{
	"name", "description", "price", "discountPrice", "countInStock", "sku",
	"category", "brand", "sizes", "colors", "collections", "material",
	"gender", "images", "isFeatured", "isPublished", "tags",
}

// SheetRowError describes a row skipped by ParseProductSheet.
type SheetRowError struct {
	Row    int
	Reason string
}

func (e SheetRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseProductSheet reads the first sheet of f into validated product
// inputs. Rows that fail validation are reported and skipped.
func ParseProductSheet(f *excelize.File) ([]ProductInput, []SheetRowError, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, ErrInvalidProduct.WithMessage("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrInvalidProduct.WithMessage("no data found in workbook")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"name", "price", "sku"} {
		if _, ok := index[required]; !ok {
			return nil, nil, ErrInvalidProduct.WithMessage("missing column " + required)
		}
	}

	var (
		inputs  []ProductInput
		skipped []SheetRowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if cell("name") == "" && cell("sku") == "" {
			continue
		}

		input, err := productInputFromRow(cell)
		if err == nil {
			err = input.Validate()
		}
		if err != nil {
			skipped = append(skipped, SheetRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, input)
	}
	return inputs, skipped, nil
}

func productInputFromRow(cell func(string) string) (ProductInput, error) {
	input := ProductInput{
		Name:        cell("name"),
		Description: cell("description"),
		SKU:         cell("sku"),
		Category:    cell("category"),
		Brand:       cell("brand"),
		Sizes:       NormalizeList(strings.Split(cell("sizes"), ",")),
		Colors:      NormalizeList(strings.Split(cell("colors"), ",")),
		Collections: cell("collections"),
		Material:    cell("material"),
		Gender:      cell("gender"),
		Tags:        NormalizeList(strings.Split(cell("tags"), ",")),
		IsFeatured:  parseSheetBool(cell("isFeatured")),
		IsPublished: parseSheetBool(cell("isPublished")),
	}

	price, err := decimal.NewFromString(cell("price"))
	if err != nil {
		return input, fmt.Errorf("invalid price %q", cell("price"))
	}
	input.Price = price

	if raw := cell("discountPrice"); raw != "" {
		discount, err := decimal.NewFromString(raw)
		if err != nil {
			return input, fmt.Errorf("invalid discountPrice %q", raw)
		}
		input.DiscountPrice = decimal.NewNullDecimal(discount)
	}

	if raw := cell("countInStock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return input, fmt.Errorf("invalid countInStock %q", raw)
		}
		input.CountInStock = stock
	}

	for _, url := range NormalizeList(strings.Split(cell("images"), ",")) {
		input.Images = append(input.Images, model.ProductImage{URL: url, AltText: input.Name})
	}
	return input, nil
}

func parseSheetBool(v string) bool {
	v = strings.ToLower(v)
	if v == "yes" || v == "y" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
