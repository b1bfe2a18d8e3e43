// Package export renders asset reports as Excel workbooks.
package export

import (
	"io"

	"assettrack/internal/models"

	"github.com/tealeg/xlsx/v3"
)

var assetHeader = []string{
	"ID", "Name", "Asset Code", "Category", "Department", "Status",
	"Acquisition Date", "Acquisition Cost", "Location",
}

// AssetReport builds a workbook with an Assets sheet listing every
// asset and a Summary sheet with counts by status. Category and
// department columns use the expanded relation names when present.
func AssetReport(assets []models.Asset) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Assets")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, title := range assetHeader {
		header.AddCell().Value = title
	}

	for _, a := range assets {
		row := sheet.AddRow()
		row.AddCell().SetInt64(a.ID)
		row.AddCell().Value = a.Name
		row.AddCell().Value = a.AssetCode

		categoryCell := row.AddCell()
		if a.Category != nil {
			categoryCell.Value = a.Category.Name
		}
		departmentCell := row.AddCell()
		if a.Department != nil {
			departmentCell.Value = a.Department.Name
		}

		row.AddCell().Value = a.Status

		dateCell := row.AddCell()
		if a.AcquisitionDate != nil {
			dateCell.Value = a.AcquisitionDate.Format("2006-01-02")
		}

		costCell := row.AddCell()
		if a.AcquisitionCost != nil {
			costCell.SetFloat(*a.AcquisitionCost)
		}

		locCell := row.AddCell()
		if a.Location != nil {
			locCell.Value = *a.Location
		}
	}

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, a := range assets {
		counts[a.Status]++
	}

	summaryHeader := summary.AddRow()
	summaryHeader.AddCell().Value = "Status"
	summaryHeader.AddCell().Value = "Count"
	for _, status := range models.ValidStatuses {
		row := summary.AddRow()
		row.AddCell().Value = status
		row.AddCell().SetInt(counts[status])
	}

	return file, nil
}

// WriteAssetReport writes the workbook produced by AssetReport to w.
func WriteAssetReport(w io.Writer, assets []models.Asset) error {
	file, err := AssetReport(assets)
	if err != nil {
		return err
	}
	return file.Write(w)
}
