package export

import (
	"fmt"

	"edupulse/internal/api"

	"github.com/xuri/excelize/v2"
)

// Roster writes one class roster to an XLSX workbook, one row per
// student as shown in the admin students view.
func Roster(class api.ClassSummary, rows []api.StudentRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Daftar Mahasiswa"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", "Kelas")
	f.SetCellValue(sheetName, "B1", class.ClassID)
	f.SetCellValue(sheetName, "C1", class.ClassName)

	f.SetCellValue(sheetName, "A3", "User ID")
	f.SetCellValue(sheetName, "B3", "Cluster")
	f.SetCellValue(sheetName, "C3", "Nilai")
	f.SetCellValue(sheetName, "D3", "Status")
	f.SetCellValue(sheetName, "E3", "Aktivitas")

	row := 4
	for _, s := range rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("Mhs-%d", s.ID))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Cluster)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.Activities)
		row++
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}

	return nil
}

// Classes writes the global summary and the class list to an XLSX
// workbook, mirroring the admin classes view.
func Classes(summary api.AdminSummary, classes []api.ClassSummary, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Daftar Kelas"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", "Total Mahasiswa")
	f.SetCellValue(sheetName, "B1", summary.TotalStudents)
	f.SetCellValue(sheetName, "A2", "Rata-rata IPK")
	f.SetCellValue(sheetName, "B2", summary.AvgGPA)
	f.SetCellValue(sheetName, "A3", "Mahasiswa Berisiko")
	f.SetCellValue(sheetName, "B3", summary.AtRiskCount)

	f.SetCellValue(sheetName, "A5", "Class ID")
	f.SetCellValue(sheetName, "B5", "Nama Kelas")
	f.SetCellValue(sheetName, "C5", "Jumlah Mahasiswa")
	f.SetCellValue(sheetName, "D5", "Rata-rata Nilai")

	row := 6
	for _, c := range classes {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), c.ClassID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), c.ClassName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), c.StudentCount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), c.AvgScore)
		row++
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}

	return nil
}
