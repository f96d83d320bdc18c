package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseUpload yüklenen CSV veya XLSX dosyasını başlık satırı + veri
// satırları olarak okur. Format dosya uzantısından seçilir.
func ParseUpload(fileName string, file io.Reader) ([]string, [][]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".xlsx" {
		return parseExcel(file)
	}
	return parseCSV(file)
}

func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("CSV okunamadı: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("dosyada başlık satırı ve en az bir veri satırı olmalı")
	}

	return allRows[0], allRows[1:], nil
}

func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("Excel dosyası açılamadı: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("sayfa okunamadı: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("dosyada başlık satırı ve en az bir veri satırı olmalı")
	}

	return rows[0], rows[1:], nil
}

// HeaderIndex başlıkları kolon indeksine map'ler (trim'li).
func HeaderIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// Cell satırdan güvenli hücre okur; kolon yoksa boş string döner.
// XLSX satırlarında sondaki boş hücreler kırpılmış gelebilir.
func Cell(row []string, idx map[string]int, header string) string {
	i, ok := idx[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
