package xmldoc

import (
	"context"

	"academic-records-db/internal/model"
)

// Codec bundles the two validation passes and the DTO mapping behind one
// interface so the import pipeline can be tested against a fake.
type Codec interface {
	Validate(ctx context.Context, data []byte) *model.ValidationResult
	Parse(ctx context.Context, data []byte) (*model.Document, error)
	CheckRules(ctx context.Context, doc *model.Document) error
}

type XMLCodec struct {
	parser    *Parser
	validator *Validator
	rules     *RuleValidator
}

func NewCodec() Codec {
	return &XMLCodec{
		parser:    NewParser(),
		validator: NewValidator(),
		rules:     NewRuleValidator(),
	}
}

func (c *XMLCodec) Validate(ctx context.Context, data []byte) *model.ValidationResult {
	return c.validator.Validate(ctx, data)
}

func (c *XMLCodec) Parse(ctx context.Context, data []byte) (*model.Document, error) {
	return c.parser.Parse(ctx, data)
}

func (c *XMLCodec) CheckRules(ctx context.Context, doc *model.Document) error {
	return c.rules.Validate(ctx, doc)
}
