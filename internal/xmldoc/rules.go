package xmldoc

import (
	"context"
	"fmt"
	"math"
	"strings"

	"academic-records-db/internal/model"
	"academic-records-db/pkg/errors"
)

// RuleValidator is the second, semantic pass over the already-parsed
// document. It re-checks every grade against the 0-10 range and reports all
// violations in one combined input error.
type RuleValidator struct{}

func NewRuleValidator() *RuleValidator {
	return &RuleValidator{}
}

func (v *RuleValidator) Validate(ctx context.Context, doc *model.Document) error {
	var violations []string

	// ParseFloat accepts "NaN", and NaN compares false against both bounds, so
	// it needs its own check or it would poison every downstream aggregate.
	for _, grade := range doc.Grades {
		if math.IsNaN(grade.Value) || grade.Value < 0 || grade.Value > 10 {
			violations = append(violations,
				fmt.Sprintf("Nota inválida: %v (deve estar entre 0 e 10)", grade.Value))
		}
	}

	if len(violations) > 0 {
		return errors.NewInputError("%s", strings.Join(violations, "; "))
	}
	return nil
}
