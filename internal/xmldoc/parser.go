package xmldoc

import (
	"context"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"academic-records-db/internal/model"
	"academic-records-db/pkg/errors"
)

// rootName is the required root element of an import document.
const rootName = "Importacao"

// The raw parse tree. Pointer fields distinguish a missing element from an
// empty one; all numeric parsing is deferred to the mapping step so the
// structural validator can report bad values instead of failing the decode.
type xmlDocument struct {
	XMLName xml.Name
	Cursos  *xmlCursos `xml:"Cursos"`
	Turmas  *xmlTurmas `xml:"Turmas"`
	Alunos  *xmlAlunos `xml:"Alunos"`
	Notas   *xmlNotas  `xml:"Notas"`
}

type xmlCursos struct {
	Curso []xmlCurso `xml:"Curso"`
}

type xmlCurso struct {
	Codigo       *string `xml:"Codigo"`
	Nome         *string `xml:"Nome"`
	CargaHoraria *string `xml:"CargaHoraria"`
}

type xmlTurmas struct {
	Turma []xmlTurma `xml:"Turma"`
}

type xmlTurma struct {
	ID          *string `xml:"Id"`
	CursoCodigo *string `xml:"CursoCodigo"`
	Semestre    *string `xml:"Semestre"`
}

type xmlAlunos struct {
	Aluno []xmlAluno `xml:"Aluno"`
}

type xmlAluno struct {
	RA   *string `xml:"RA"`
	Nome *string `xml:"Nome"`
}

type xmlNotas struct {
	Nota []xmlNota `xml:"Nota"`
}

type xmlNota struct {
	RA      *string `xml:"RA"`
	TurmaID *string `xml:"TurmaId"`
	Valor   *string `xml:"Valor"`
}

func decode(data []byte) (*xmlDocument, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// present reports whether an element exists and carries a non-blank value.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse maps a well-formed import document onto typed rows. It assumes the
// structural validator already passed; any numeric value that still fails to
// parse is reported as an input error.
func (p *Parser) Parse(ctx context.Context, data []byte) (*model.Document, error) {
	tree, err := decode(data)
	if err != nil {
		return nil, errors.NewInputError("Erro ao parsear XML: %v", err)
	}

	doc := &model.Document{}

	if tree.Cursos != nil {
		for i, curso := range tree.Cursos.Curso {
			workload, err := strconv.Atoi(text(curso.CargaHoraria))
			if err != nil {
				return nil, errors.NewInputError("Curso %d: CargaHoraria inválida: %s", i+1, text(curso.CargaHoraria))
			}
			doc.Courses = append(doc.Courses, model.CourseRow{
				Code:     text(curso.Codigo),
				Name:     text(curso.Nome),
				Workload: workload,
			})
		}
	}

	if tree.Turmas != nil {
		for _, turma := range tree.Turmas.Turma {
			doc.Classes = append(doc.Classes, model.ClassRow{
				ID:         text(turma.ID),
				CourseCode: text(turma.CursoCodigo),
				Semester:   text(turma.Semestre),
			})
		}
	}

	if tree.Alunos != nil {
		for _, aluno := range tree.Alunos.Aluno {
			doc.Students = append(doc.Students, model.StudentRow{
				RA:   text(aluno.RA),
				Name: text(aluno.Nome),
			})
		}
	}

	if tree.Notas != nil {
		for i, nota := range tree.Notas.Nota {
			value, err := strconv.ParseFloat(text(nota.Valor), 64)
			if err != nil || math.IsNaN(value) {
				return nil, errors.NewInputError("Nota %d: Valor inválido: %s", i+1, text(nota.Valor))
			}
			doc.Grades = append(doc.Grades, model.GradeRow{
				RA:      text(nota.RA),
				ClassID: text(nota.TurmaID),
				Value:   value,
			})
		}
	}

	return doc, nil
}
