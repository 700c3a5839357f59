package sanmar

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// ParseProducts decodes the product description file.
func ParseProducts(r io.Reader) ([]ProductRow, error) {
	var rows []ProductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse product csv: %w", err)
	}
	return rows, nil
}

// ParseSKUs decodes the per-SKU enhanced data file or an inventory delta.
func ParseSKUs(r io.Reader) ([]SKURow, error) {
	var rows []SKURow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse sku csv: %w", err)
	}
	return rows, nil
}

// LoadFiles parses the two bulk files and replaces the catalog contents.
// Returns style and SKU row counts.
func LoadFiles(c *Catalog, productPath, skuPath string) (int, int, error) {
	pf, err := os.Open(productPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open product file: %w", err)
	}
	defer pf.Close()

	products, err := ParseProducts(pf)
	if err != nil {
		return 0, 0, err
	}

	sf, err := os.Open(skuPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open sku file: %w", err)
	}
	defer sf.Close()

	skus, err := ParseSKUs(sf)
	if err != nil {
		return 0, 0, err
	}

	c.Load(products, skus)
	return len(products), len(skus), nil
}

// ApplyDeltaFile parses an hourly inventory delta and patches quantities.
// Returns the number of rows applied.
func ApplyDeltaFile(c *Catalog, deltaPath string) (int, error) {
	f, err := os.Open(deltaPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open delta file: %w", err)
	}
	defer f.Close()

	rows, err := ParseSKUs(f)
	if err != nil {
		return 0, err
	}
	return c.ApplyDelta(rows), nil
}
