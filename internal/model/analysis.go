// Package model defines the core data types for chart analysis.
package model

import (
	"encoding/json"
)

// JSON keys the model is instructed to return. The remote service is not
// contractually limited to this set; anything else lands in Extra.
const (
	KeyResistanceSupport  = "resistance_and_support"
	KeyTrend              = "trends"
	KeyChartPattern       = "chart_patterns"
	KeyCandlestickPattern = "candlestick_patterns"
	KeyVolume             = "volume"
	KeyMomentum           = "momentum"
)

// AnalysisRecord is the typed result of one analysis call. Each field holds
// the model's free-text commentary for that category; an empty field means
// the model returned no analysis for it.
type AnalysisRecord struct {
	ResistanceSupport  string
	Trend              string
	ChartPattern       string
	CandlestickPattern string
	Volume             string
	Momentum           string

	// Extra holds keys the model returned outside the fixed category set.
	Extra map[string]string
}

// Section is one renderable category of an AnalysisRecord.
type Section struct {
	Key   string
	Title string
	Body  string
}

// UnmarshalJSON decodes a loosely-structured model reply. Known keys map to
// named fields; unknown keys are kept in Extra. Non-string values are kept as
// their compact JSON text rather than dropped.
func (r *AnalysisRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		text, ok := value.(string)
		if !ok {
			encoded, err := json.Marshal(value)
			if err != nil {
				continue
			}
			text = string(encoded)
		}

		switch key {
		case KeyResistanceSupport:
			r.ResistanceSupport = text
		case KeyTrend:
			r.Trend = text
		case KeyChartPattern:
			r.ChartPattern = text
		case KeyCandlestickPattern:
			r.CandlestickPattern = text
		case KeyVolume:
			r.Volume = text
		case KeyMomentum:
			r.Momentum = text
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]string)
			}
			r.Extra[key] = text
		}
	}

	return nil
}

// MarshalJSON emits the record with the same keys it was decoded from,
// omitting absent categories.
func (r AnalysisRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, 6+len(r.Extra))

	for _, s := range r.Sections() {
		out[s.Key] = s.Body
	}
	for key, value := range r.Extra {
		out[key] = value
	}

	return json.Marshal(out)
}

// Sections returns the present fixed categories in display order, followed by
// nothing from Extra; callers that render unexpected keys read Extra directly.
func (r AnalysisRecord) Sections() []Section {
	all := []Section{
		{KeyResistanceSupport, "Resistance & Support", r.ResistanceSupport},
		{KeyTrend, "Trend", r.Trend},
		{KeyChartPattern, "Chart Patterns", r.ChartPattern},
		{KeyCandlestickPattern, "Candlestick Patterns", r.CandlestickPattern},
		{KeyVolume, "Volume", r.Volume},
		{KeyMomentum, "Momentum", r.Momentum},
	}

	sections := make([]Section, 0, len(all))
	for _, s := range all {
		if s.Body != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// IsEmpty reports whether the record carries no analysis at all.
func (r AnalysisRecord) IsEmpty() bool {
	return len(r.Sections()) == 0 && len(r.Extra) == 0
}
