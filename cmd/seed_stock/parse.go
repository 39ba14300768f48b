package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedRow una línea del CSV: product_id,quantity,unit_price[,display_tag[,discount[,expiration]]]
type seedRow struct {
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	DisplayTag string
	Discount   decimal.Decimal
	Expiration string
}

// parseCSV lee las filas de stock. Con latin1 el archivo se decodifica desde ISO-8859-1
// (exportaciones de planillas antiguas). Una primera fila con "product_id" se toma como cabecera.
func parseCSV(r io.Reader, latin1 bool) ([]seedRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []seedRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "product_id") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 3 columnas", line)
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad %q: %w", line, rec[1], err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[2], err)
		}
		row := seedRow{ProductID: strings.TrimSpace(rec[0]), Quantity: qty, UnitPrice: price}
		if len(rec) > 3 {
			row.DisplayTag = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
			if row.Discount, err = decimal.NewFromString(strings.TrimSpace(rec[4])); err != nil {
				return nil, fmt.Errorf("línea %d: descuento %q: %w", line, rec[4], err)
			}
		}
		if len(rec) > 5 {
			row.Expiration = strings.TrimSpace(rec[5])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
