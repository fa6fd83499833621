package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"strconv"
	"time"

	"academic-records-db/internal/model"
)

// Export documents keep the element and key names of the source system, so
// consumers of the old consolidated files can read the new ones unchanged.

type xmlResultados struct {
	XMLName xml.Name       `xml:"Resultados"`
	Alunos  []xmlAlunoItem `xml:"Alunos>Aluno"`
}

type xmlAlunoItem struct {
	RA            string          `xml:"RA,attr"`
	Nome          string          `xml:"Nome,attr"`
	Disciplinas   []xmlDisciplina `xml:"Disciplinas>Disciplina"`
	MediaGeral    string          `xml:"MediaGeral"`
	SituacaoGeral string          `xml:"SituacaoGeral"`
}

type xmlDisciplina struct {
	Codigo       string `xml:"Codigo,attr"`
	Nome         string `xml:"Nome,attr"`
	CargaHoraria string `xml:"CargaHoraria,attr"`
	Semestre     string `xml:"Semestre,attr"`
	Nota         string `xml:"Nota"`
	Status       string `xml:"Status"`
}

func renderXML(students []model.StudentReport) ([]byte, error) {
	doc := xmlResultados{}
	for _, student := range students {
		item := xmlAlunoItem{
			RA:            student.RA,
			Nome:          student.Name,
			MediaGeral:    formatGrade(student.GPA),
			SituacaoGeral: student.OverallStatus,
		}
		for _, disc := range student.Disciplines {
			item.Disciplinas = append(item.Disciplinas, xmlDisciplina{
				Codigo:       disc.CourseCode,
				Nome:         disc.CourseName,
				CargaHoraria: strconv.Itoa(disc.Workload),
				Semestre:     disc.Semester,
				Nota:         formatGrade(disc.Grade),
				Status:       disc.Status,
			})
		}
		doc.Alunos = append(doc.Alunos, item)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func renderCSV(students []model.StudentReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"RA", "Nome", "Código Disciplina", "Nome Disciplina", "Nota", "Status Disciplina", "Média Geral", "Situação Geral"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, student := range students {
		if len(student.Disciplines) == 0 {
			row := []string{student.RA, student.Name, "", "", "", "", formatGrade(student.GPA), student.OverallStatus}
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}
		for _, disc := range student.Disciplines {
			row := []string{
				student.RA, student.Name,
				disc.CourseCode, disc.CourseName,
				formatGrade(disc.Grade), disc.Status,
				formatGrade(student.GPA), student.OverallStatus,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

type jsonExport struct {
	GeradoEm time.Time   `json:"geradoEm"`
	Alunos   []jsonAluno `json:"alunos"`
}

type jsonAluno struct {
	RA            string           `json:"RA"`
	Nome          string           `json:"Nome"`
	Disciplinas   []jsonDisciplina `json:"Disciplinas"`
	MediaGeral    float64          `json:"MediaGeral"`
	SituacaoGeral string           `json:"SituacaoGeral"`
}

type jsonDisciplina struct {
	Codigo       string  `json:"Codigo"`
	Nome         string  `json:"Nome"`
	CargaHoraria int     `json:"CargaHoraria"`
	Semestre     string  `json:"Semestre"`
	Nota         float64 `json:"Nota"`
	Status       string  `json:"Status"`
}

func renderJSON(students []model.StudentReport, generatedAt time.Time) ([]byte, error) {
	doc := jsonExport{GeradoEm: generatedAt}
	for _, student := range students {
		item := jsonAluno{
			RA:            student.RA,
			Nome:          student.Name,
			Disciplinas:   []jsonDisciplina{},
			MediaGeral:    student.GPA,
			SituacaoGeral: student.OverallStatus,
		}
		for _, disc := range student.Disciplines {
			item.Disciplinas = append(item.Disciplinas, jsonDisciplina{
				Codigo:       disc.CourseCode,
				Nome:         disc.CourseName,
				CargaHoraria: disc.Workload,
				Semestre:     disc.Semester,
				Nota:         disc.Grade,
				Status:       disc.Status,
			})
		}
		doc.Alunos = append(doc.Alunos, item)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func formatGrade(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
