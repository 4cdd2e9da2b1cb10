package study

import (
	"fmt"

	"studyvault/internal/model"
	"studyvault/internal/retrieval"
)

// Formulas returns all formula notes. Reads never fail outward.
func (s *Service) Formulas() []model.Formula {
	formulas := loadCollection[model.Formula](s, keyFormulas)
	for i := range formulas {
		formulas[i] = formulas[i].Clone()
	}
	return formulas
}

// FormulaByID returns the formula with the given ID.
func (s *Service) FormulaByID(id string) (model.Formula, bool) {
	for _, f := range loadCollection[model.Formula](s, keyFormulas) {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return model.Formula{}, false
}

// UpsertFormula creates or replaces a formula note. Formulas are exempt
// from eviction.
func (s *Service) UpsertFormula(formula model.Formula) (model.Formula, UpsertResult, error) {
	now := s.clock.Now()
	formula = formula.Clone()
	if formula.ID == "" {
		formula.ID = s.idgen.New()
	}
	if formula.CreatedAt.IsZero() {
		formula.CreatedAt = now
	}
	formula.UpdatedAt = now

	formulas := loadCollection[model.Formula](s, keyFormulas)
	replaced := false
	for i, f := range formulas {
		if f.ID == formula.ID {
			formulas[i] = formula
			replaced = true
			break
		}
	}
	if !replaced {
		formulas = append(formulas, formula)
	}

	level, err := saveCollection(s, keyFormulas, formulas)
	if err != nil {
		return model.Formula{}, UpsertResult{}, err
	}

	s.logger.Info("formula saved", "id", formula.ID, "name", formula.Name)
	return formula.Clone(), UpsertResult{Level: level}, nil
}

// DeleteFormula removes a formula by ID. Absent IDs are a no-op.
func (s *Service) DeleteFormula(id string) error {
	formulas := loadCollection[model.Formula](s, keyFormulas)
	kept := formulas[:0]
	for _, f := range formulas {
		if f.ID == id {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == len(formulas) {
		return nil
	}
	if _, err := saveCollection(s, keyFormulas, kept); err != nil {
		return fmt.Errorf("saving formulas: %w", err)
	}
	s.logger.Info("formula deleted", "id", id)
	return nil
}

// SearchFormulas returns the top-k formulas ranked by relevance to the
// query. Formulas carry no importance weighting.
func (s *Service) SearchFormulas(query string, k int) []model.Formula {
	return retrieval.Formulas(s.Formulas(), query, k)
}
