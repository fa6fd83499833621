package xmldoc

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"academic-records-db/internal/model"
)

// Validator performs the structural pass over a raw document. It accumulates
// every violation instead of stopping at the first one; only unparseable XML
// short-circuits with a single error.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(ctx context.Context, data []byte) *model.ValidationResult {
	tree, err := decode(data)
	if err != nil {
		return &model.ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Erro ao parsear XML: %v", err)},
		}
	}

	var errs []string

	if tree.XMLName.Local != rootName {
		errs = append(errs, `Elemento raiz "Importacao" não encontrado`)
		return &model.ValidationResult{Valid: false, Errors: errs}
	}

	errs = append(errs, v.checkCourses(tree)...)
	errs = append(errs, v.checkClasses(tree)...)
	errs = append(errs, v.checkStudents(tree)...)
	errs = append(errs, v.checkGrades(tree)...)

	return &model.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func (v *Validator) checkCourses(tree *xmlDocument) []string {
	if tree.Cursos == nil || len(tree.Cursos.Curso) == 0 {
		return []string{`Seção "Cursos" não encontrada ou vazia`}
	}

	var errs []string
	for i, curso := range tree.Cursos.Curso {
		if !present(curso.Codigo) {
			errs = append(errs, fmt.Sprintf("Curso %d: Codigo obrigatório", i+1))
		}
		if !present(curso.Nome) {
			errs = append(errs, fmt.Sprintf("Curso %d: Nome obrigatório", i+1))
		}
		if !present(curso.CargaHoraria) {
			errs = append(errs, fmt.Sprintf("Curso %d: CargaHoraria obrigatória", i+1))
		}
	}
	return errs
}

func (v *Validator) checkClasses(tree *xmlDocument) []string {
	if tree.Turmas == nil || len(tree.Turmas.Turma) == 0 {
		return []string{`Seção "Turmas" não encontrada ou vazia`}
	}

	var errs []string
	for i, turma := range tree.Turmas.Turma {
		if !present(turma.ID) {
			errs = append(errs, fmt.Sprintf("Turma %d: Id obrigatório", i+1))
		}
		if !present(turma.CursoCodigo) {
			errs = append(errs, fmt.Sprintf("Turma %d: CursoCodigo obrigatório", i+1))
		}
		if !present(turma.Semestre) {
			errs = append(errs, fmt.Sprintf("Turma %d: Semestre obrigatório", i+1))
		}
	}
	return errs
}

func (v *Validator) checkStudents(tree *xmlDocument) []string {
	if tree.Alunos == nil || len(tree.Alunos.Aluno) == 0 {
		return []string{`Seção "Alunos" não encontrada ou vazia`}
	}

	var errs []string
	for i, aluno := range tree.Alunos.Aluno {
		if !present(aluno.RA) {
			errs = append(errs, fmt.Sprintf("Aluno %d: RA obrigatório", i+1))
		}
		if !present(aluno.Nome) {
			errs = append(errs, fmt.Sprintf("Aluno %d: Nome obrigatório", i+1))
		}
	}
	return errs
}

func (v *Validator) checkGrades(tree *xmlDocument) []string {
	if tree.Notas == nil || len(tree.Notas.Nota) == 0 {
		return []string{`Seção "Notas" não encontrada ou vazia`}
	}

	var errs []string
	for i, nota := range tree.Notas.Nota {
		if !present(nota.RA) {
			errs = append(errs, fmt.Sprintf("Nota %d: RA obrigatório", i+1))
		}
		if !present(nota.TurmaID) {
			errs = append(errs, fmt.Sprintf("Nota %d: TurmaId obrigatório", i+1))
		}
		if !present(nota.Valor) {
			errs = append(errs, fmt.Sprintf("Nota %d: Valor obrigatório", i+1))
		} else if value, err := strconv.ParseFloat(text(nota.Valor), 64); err != nil || math.IsNaN(value) || value < 0 || value > 10 {
			errs = append(errs, fmt.Sprintf("Nota %d: Valor deve estar entre 0 e 10", i+1))
		}
	}
	return errs
}
