package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a workbook with Summary, Joints and Beams sheets.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Structure", r.Name},
		{"Success", r.Result.Success},
		{"Reason", r.Result.Reason},
		{"Flagged", fmt.Sprint(r.Result.Flagged)},
		{"Joints", len(r.Structure.Joints)},
		{"Beams", len(r.Structure.Beams)},
		{"Zero-force members", r.Summary.ZeroForce},
		{"Residual X", r.Summary.Residual.X},
		{"Residual Y", r.Summary.Residual.Y},
	}
	if err := writeRows(f, "Summary", summary); err != nil {
		return err
	}

	if _, err := f.NewSheet("Joints"); err != nil {
		return err
	}
	joints := [][]interface{}{{"Joint", "X", "Y", "Anchor", "Load X", "Load Y", "Reaction X", "Reaction Y", "Problematic"}}
	for _, j := range r.Joints() {
		row := []interface{}{j.Index, j.X, j.Y, j.Anchor, j.Load.X, j.Load.Y, "", "", j.Problematic}
		if j.Reaction != nil {
			row[6], row[7] = j.Reaction.X, j.Reaction.Y
		}
		joints = append(joints, row)
	}
	if err := writeRows(f, "Joints", joints); err != nil {
		return err
	}

	if _, err := f.NewSheet("Beams"); err != nil {
		return err
	}
	beams := [][]interface{}{{"Beam", "J1", "J2", "Length", "Area", "Force", "Stress", "Kind"}}
	for _, b := range r.Beams() {
		beams = append(beams, []interface{}{b.Index, b.J1, b.J2, b.Length, b.Area, b.Force, b.Stress, b.Kind})
	}
	if err := writeRows(f, "Beams", beams); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
