package xmldoc

import (
	"context"
	"math"
	"testing"

	"academic-records-db/internal/model"
	"academic-records-db/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserMapsDocument(t *testing.T) {
	doc, err := NewParser().Parse(context.Background(), []byte(validXML))
	require.NoError(t, err)

	require.Len(t, doc.Courses, 2)
	assert.Equal(t, model.CourseRow{Code: "ENG101", Name: "Engenharia de Software", Workload: 60}, doc.Courses[0])

	require.Len(t, doc.Classes, 2)
	assert.Equal(t, model.ClassRow{ID: "T1", CourseCode: "ENG101", Semester: "2023-1"}, doc.Classes[0])

	require.Len(t, doc.Students, 2)
	assert.Equal(t, model.StudentRow{RA: "2023002", Name: "Bruno Lima"}, doc.Students[1])

	require.Len(t, doc.Grades, 2)
	assert.Equal(t, model.GradeRow{RA: "2023001", ClassID: "T1", Value: 8.5}, doc.Grades[0])
}

func TestParserRejectsMalformedXML(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), []byte("not xml"))

	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
}

func TestParserRejectsNonNumericWorkload(t *testing.T) {
	doc := `<Importacao>
	  <Cursos><Curso><Codigo>ENG101</Codigo><Nome>Engenharia</Nome><CargaHoraria>sessenta</CargaHoraria></Curso></Cursos>
	</Importacao>`

	_, err := NewParser().Parse(context.Background(), []byte(doc))

	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
	assert.Contains(t, err.Error(), "CargaHoraria inválida")
}

func TestParserRejectsNaNGrade(t *testing.T) {
	doc := `<Importacao>
	  <Notas><Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>NaN</Valor></Nota></Notas>
	</Importacao>`

	_, err := NewParser().Parse(context.Background(), []byte(doc))

	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
	assert.Contains(t, err.Error(), "Nota 1: Valor inválido: NaN")
}

func TestRuleValidatorRejectsNaNGrade(t *testing.T) {
	doc := &model.Document{
		Grades: []model.GradeRow{
			{RA: "1", ClassID: "T1", Value: math.NaN()},
		},
	}

	err := NewRuleValidator().Validate(context.Background(), doc)

	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
	assert.Contains(t, err.Error(), "Nota inválida")
}

func TestRuleValidatorAccumulatesGradeViolations(t *testing.T) {
	doc := &model.Document{
		Grades: []model.GradeRow{
			{RA: "1", ClassID: "T1", Value: 11},
			{RA: "2", ClassID: "T1", Value: 7},
			{RA: "3", ClassID: "T1", Value: -0.5},
		},
	}

	err := NewRuleValidator().Validate(context.Background(), doc)

	require.Error(t, err)
	assert.True(t, errors.IsInputError(err))
	assert.Contains(t, err.Error(), "Nota inválida: 11")
	assert.Contains(t, err.Error(), "Nota inválida: -0.5")
}

func TestRuleValidatorAcceptsBoundaryGrades(t *testing.T) {
	doc := &model.Document{
		Grades: []model.GradeRow{
			{RA: "1", ClassID: "T1", Value: 0},
			{RA: "2", ClassID: "T1", Value: 10},
		},
	}

	assert.NoError(t, NewRuleValidator().Validate(context.Background(), doc))
}
