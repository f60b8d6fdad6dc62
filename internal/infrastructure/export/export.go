// Package export serializa tablas a formatos de descarga: CSV y XLSX.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/inventariox/inventariox-api/internal/application/report"
)

var (
	_ report.TableExporter = (*CSVExporter)(nil)
	_ report.TableExporter = (*ExcelExporter)(nil)
)

// CSVExporter serializa la tabla a CSV (UTF-8, separador coma).
type CSVExporter struct{}

// NewCSVExporter construye el exportador CSV.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// Export escribe cabeceras + filas y devuelve los bytes del archivo.
func (e *CSVExporter) Export(_ string, headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("csv: escribir cabeceras: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv: escribir fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *CSVExporter) ContentType() string { return "text/csv" }
func (e *CSVExporter) Extension() string   { return ".csv" }

// ExcelExporter serializa la tabla a XLSX con cabecera en negrita.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador XLSX.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Export crea una hoja con el nombre dado, escribe cabeceras + filas y
// devuelve los bytes del archivo.
func (e *ExcelExporter) Export(name string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(name)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo de cabecera: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda de cabecera: %w", err)
		}
		f.SetCellValue(name, cell, header)
		f.SetCellStyle(name, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("xlsx: celda de dato: %w", err)
			}
			f.SetCellValue(name, cell, value)
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx: nombre de columna: %w", err)
		}
		f.SetColWidth(name, col, col, 18)
	}

	if name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *ExcelExporter) Extension() string { return ".xlsx" }
