package aggregator

import "github.com/sjses80519/dcnSyslogAnalysis-project/pkg/models"

// Set holds one Aggregator per category
type Set struct {
	byCategory map[models.Category]*Aggregator
}

// NewSet creates an aggregator for every category in models.Categories
func NewSet() *Set {
	s := &Set{byCategory: make(map[models.Category]*Aggregator, len(models.Categories))}
	for _, c := range models.Categories {
		s.byCategory[c] = New(c)
	}
	return s
}

// For returns the aggregator of category, creating it when missing
func (s *Set) For(category models.Category) *Aggregator {
	a, ok := s.byCategory[category]
	if !ok {
		a = New(category)
		s.byCategory[category] = a
	}
	return a
}

// EnsureMonth registers monthKey in every category
func (s *Set) EnsureMonth(monthKey string) {
	for _, c := range models.Categories {
		s.For(c).EnsureMonth(monthKey)
	}
}

// ResolveHostnames resolves detail hostnames in every category
func (s *Set) ResolveHostnames(devices HostnameResolver) {
	for _, c := range models.Categories {
		s.For(c).ResolveHostnames(devices)
	}
}

// Reports builds one report per category in models.Categories order
func (s *Set) Reports(latestMonth string) []models.CategoryReport {
	out := make([]models.CategoryReport, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, s.For(c).Report(latestMonth))
	}
	return out
}
