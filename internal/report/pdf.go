package report

import (
	"bytes"
	"fmt"
	"time"

	"academic-records-db/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// pdfStudentLimit caps the per-student section so a large dataset does not
// produce an unbounded document.
const pdfStudentLimit = 50

func renderPDF(dashboard *model.Dashboard, students []model.StudentReport, courses []model.CourseReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 20, translator("Relatório de Notas Acadêmicas"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, translator(fmt.Sprintf("Gerado em: %s", time.Now().Format("02/01/2006 15:04:05"))), "", 1, "C", false, 0, "")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, translator("Visão Geral"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Total de Alunos: %d", dashboard.TotalStudents)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Média Geral (GPA): %.2f", dashboard.OverallGPA)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Taxa de Aprovação: %.2f%%", dashboard.OverallApprovalRate)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Total de Disciplinas: %d", dashboard.TotalCourses)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, translator(fmt.Sprintf("Total de Turmas: %d", dashboard.TotalClasses)), "", 1, "L", false, 0, "")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, translator("Resultados por Aluno"), "", 1, "L", false, 0, "")

	limit := len(students)
	if limit > pdfStudentLimit {
		limit = pdfStudentLimit
	}
	for _, student := range students[:limit] {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, translator(fmt.Sprintf("%s (RA: %s)", student.Name, student.RA)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Média Geral: %.2f", student.GPA)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Situação: %s", student.OverallStatus)), "", 1, "L", false, 0, "")

		for _, disc := range student.Disciplines {
			pdf.CellFormat(0, 6, translator(fmt.Sprintf("  - %s (%s): %.1f - %s",
				disc.CourseName, disc.CourseCode, disc.Grade, disc.Status)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, translator("Estatísticas por Disciplina"), "", 1, "L", false, 0, "")

	for _, course := range courses {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, translator(fmt.Sprintf("%s (%s)", course.Name, course.Code)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Média: %.2f", course.Average)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Desvio Padrão: %.2f", course.StandardDeviation)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Taxa de Aprovação: %.2f%%", course.ApprovalRate)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, translator(fmt.Sprintf("Total de Alunos: %d", course.TotalStudents)), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
