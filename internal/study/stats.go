package study

import "studyvault/internal/budget"

// Stats summarizes store occupancy for a status indicator.
type Stats struct {
	UsedBytes    int64
	QuotaBytes   int64
	PercentUsed  float64
	Level        budget.Level
	FileCount    int
	SessionCount int
	CardCount    int
	ConceptCount int
	FormulaCount int
	MindMapCount int
}

// Stats returns current usage, quota classification, and per-collection
// record counts.
func (s *Service) Stats() (Stats, error) {
	usage, err := s.budget.Usage()
	if err != nil {
		return Stats{}, err
	}
	pct, err := s.budget.PercentUsed()
	if err != nil {
		return Stats{}, err
	}
	level, err := s.budget.Classify()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		UsedBytes:    usage,
		QuotaBytes:   s.budget.Quota(),
		PercentUsed:  pct,
		Level:        level,
		FileCount:    len(s.Files()),
		SessionCount: len(s.Sessions()),
		CardCount:    len(s.Cards()),
		ConceptCount: len(s.Concepts()),
		FormulaCount: len(s.Formulas()),
		MindMapCount: len(s.MindMaps()),
	}, nil
}
