package xmldoc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validXML = `<Importacao>
  <Cursos>
    <Curso><Codigo>ENG101</Codigo><Nome>Engenharia de Software</Nome><CargaHoraria>60</CargaHoraria></Curso>
    <Curso><Codigo>MAT201</Codigo><Nome>Cálculo II</Nome><CargaHoraria>80</CargaHoraria></Curso>
  </Cursos>
  <Turmas>
    <Turma><Id>T1</Id><CursoCodigo>ENG101</CursoCodigo><Semestre>2023-1</Semestre></Turma>
    <Turma><Id>T2</Id><CursoCodigo>MAT201</CursoCodigo><Semestre>2023-1</Semestre></Turma>
  </Turmas>
  <Alunos>
    <Aluno><RA>2023001</RA><Nome>Ana Souza</Nome></Aluno>
    <Aluno><RA>2023002</RA><Nome>Bruno Lima</Nome></Aluno>
  </Alunos>
  <Notas>
    <Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>8.5</Valor></Nota>
    <Nota><RA>2023002</RA><TurmaId>T2</TurmaId><Valor>5.0</Valor></Nota>
  </Notas>
</Importacao>`

func TestValidatorAcceptsWellFormedDocument(t *testing.T) {
	result := NewValidator().Validate(context.Background(), []byte(validXML))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidatorRejectsUnparseableXML(t *testing.T) {
	result := NewValidator().Validate(context.Background(), []byte("<Importacao><Cursos>"))

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Erro ao parsear XML")
}

func TestValidatorRejectsWrongRootElement(t *testing.T) {
	result := NewValidator().Validate(context.Background(), []byte("<Dados></Dados>"))

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `Elemento raiz "Importacao" não encontrado`, result.Errors[0])
}

func TestValidatorReportsMissingSections(t *testing.T) {
	result := NewValidator().Validate(context.Background(), []byte("<Importacao></Importacao>"))

	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		`Seção "Cursos" não encontrada ou vazia`,
		`Seção "Turmas" não encontrada ou vazia`,
		`Seção "Alunos" não encontrada ou vazia`,
		`Seção "Notas" não encontrada ou vazia`,
	}, result.Errors)
}

// A missing section and a missing field must both be reported in one pass.
func TestValidatorAccumulatesAcrossSections(t *testing.T) {
	doc := `<Importacao>
	  <Turmas><Turma><Id>T1</Id><CursoCodigo>ENG101</CursoCodigo><Semestre>2023-1</Semestre></Turma></Turmas>
	  <Alunos><Aluno><Nome>Ana Souza</Nome></Aluno></Alunos>
	  <Notas><Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>8.5</Valor></Nota></Notas>
	</Importacao>`

	result := NewValidator().Validate(context.Background(), []byte(doc))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, `Seção "Cursos" não encontrada ou vazia`)
	assert.Contains(t, result.Errors, "Aluno 1: RA obrigatório")
	assert.GreaterOrEqual(t, len(result.Errors), 2)
}

func TestValidatorReportsMissingFieldsWithPosition(t *testing.T) {
	doc := `<Importacao>
	  <Cursos>
	    <Curso><Codigo>ENG101</Codigo><Nome>Engenharia</Nome><CargaHoraria>60</CargaHoraria></Curso>
	    <Curso><Nome>Sem Código</Nome></Curso>
	  </Cursos>
	  <Turmas><Turma><Semestre>2023-1</Semestre></Turma></Turmas>
	  <Alunos><Aluno><RA>2023001</RA><Nome>Ana</Nome></Aluno></Alunos>
	  <Notas><Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>8.5</Valor></Nota></Notas>
	</Importacao>`

	result := NewValidator().Validate(context.Background(), []byte(doc))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Curso 2: Codigo obrigatório")
	assert.Contains(t, result.Errors, "Curso 2: CargaHoraria obrigatória")
	assert.Contains(t, result.Errors, "Turma 1: Id obrigatório")
	assert.Contains(t, result.Errors, "Turma 1: CursoCodigo obrigatório")
	assert.NotContains(t, result.Errors, "Curso 1: Codigo obrigatório")
}

func TestValidatorTreatsEmptyElementAsMissing(t *testing.T) {
	doc := `<Importacao>
	  <Cursos><Curso><Codigo>  </Codigo><Nome>Engenharia</Nome><CargaHoraria>60</CargaHoraria></Curso></Cursos>
	  <Turmas><Turma><Id>T1</Id><CursoCodigo>ENG101</CursoCodigo><Semestre>2023-1</Semestre></Turma></Turmas>
	  <Alunos><Aluno><RA>2023001</RA><Nome>Ana</Nome></Aluno></Alunos>
	  <Notas><Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>8.5</Valor></Nota></Notas>
	</Importacao>`

	result := NewValidator().Validate(context.Background(), []byte(doc))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Curso 1: Codigo obrigatório")
}

func TestValidatorChecksGradeRange(t *testing.T) {
	tests := []struct {
		name  string
		valor string
		valid bool
	}{
		{"lower bound", "0", true},
		{"upper bound", "10", true},
		{"mid range", "6.75", true},
		{"above range", "10.5", false},
		{"below range", "-1", false},
		{"not numeric", "dez", false},
		{"NaN parses but is not a grade", "NaN", false},
		{"NaN lowercase", "nan", false},
		{"positive infinity", "Inf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<Importacao>
			  <Cursos><Curso><Codigo>ENG101</Codigo><Nome>Engenharia</Nome><CargaHoraria>60</CargaHoraria></Curso></Cursos>
			  <Turmas><Turma><Id>T1</Id><CursoCodigo>ENG101</CursoCodigo><Semestre>2023-1</Semestre></Turma></Turmas>
			  <Alunos><Aluno><RA>2023001</RA><Nome>Ana</Nome></Aluno></Alunos>
			  <Notas><Nota><RA>2023001</RA><TurmaId>T1</TurmaId><Valor>` + tt.valor + `</Valor></Nota></Notas>
			</Importacao>`

			result := NewValidator().Validate(context.Background(), []byte(doc))

			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Contains(t, result.Errors, "Nota 1: Valor deve estar entre 0 e 10")
			}
		})
	}
}
