// Package risk produces the dyslexia screening report generated when an
// evaluation completes. The heuristic here is the fallback the trained model
// pipeline ships with: a probability derived from overall accuracy, response
// times and confusion patterns, mapped to a risk level, classification and
// recommendation for the professional.
package risk

import "fmt"

// Risk levels, ordered by severity.
const (
	LevelLow    = "BAJO"
	LevelMedium = "MEDIO"
	LevelHigh   = "ALTO"
)

// Classifications.
const (
	ClassDetected    = "Dislexia Detectada"
	ClassNotDetected = "Sin Dislexia"
)

// Inputs are the evaluation-wide signals the heuristic scores.
type Inputs struct {
	// AveragePrecision is the evaluation's accuracy in percent (0-100).
	AveragePrecision float64
	// AvgResponseMs is the mean response time across all recorded trials.
	AvgResponseMs float64
	// MirrorConfusions counts wrong picks on mirror-letter distractors
	// (b-d, p-q), the strongest dyslexia indicator among the patterns.
	MirrorConfusions int
	// OtherConfusions counts wrong picks on the remaining confusion
	// patterns (phonetic and orthographic swaps).
	OtherConfusions int
}

// Report is the screening outcome stored with the evaluation.
type Report struct {
	Probability    float64
	RiskIndex      float64
	RiskLevel      string
	Classification string
	Confidence     int
	Recommendation string
	Simulated      bool
}

// Assess scores the inputs and builds a report. The base probability is the
// inverse of the accuracy; slow responses and confusion-pattern picks push
// it up, each contribution capped so no single signal dominates.
func Assess(in Inputs) Report {
	accuracy := clamp(in.AveragePrecision, 0, 100)
	p := (100 - accuracy) / 100

	switch {
	case in.AvgResponseMs > 10000:
		p += 0.10
	case in.AvgResponseMs > 6000:
		p += 0.05
	}

	p += min(0.03*float64(in.MirrorConfusions), 0.15)
	p += min(0.01*float64(in.OtherConfusions), 0.05)
	p = clamp(p, 0, 1)

	var level string
	switch {
	case p < 0.35:
		level = LevelLow
	case p < 0.75:
		level = LevelMedium
	default:
		level = LevelHigh
	}

	detected := p >= 0.5
	classification := ClassNotDetected
	if detected {
		classification = ClassDetected
	}

	return Report{
		Probability:    p,
		RiskIndex:      p * 100,
		RiskLevel:      level,
		Classification: classification,
		Confidence:     60,
		Recommendation: recommendation(detected, p, level, accuracy),
		Simulated:      true,
	}
}

func recommendation(detected bool, p float64, level string, accuracy float64) string {
	prefix := fmt.Sprintf("Análisis heurístico (precisión promedio: %.1f%%). ", accuracy)
	if detected {
		switch level {
		case LevelHigh:
			return prefix + "Se recomienda encarecidamente una evaluación neuropsicológica " +
				"completa por parte de un profesional especializado. Los indicadores sugieren " +
				"una alta probabilidad de dislexia que requiere atención profesional."
		case LevelMedium:
			return prefix + "Se sugiere realizar una evaluación profesional más detallada. " +
				"Los resultados muestran indicadores de dislexia que deberían ser confirmados " +
				"por un especialista."
		default:
			return prefix + "Los indicadores sugieren presencia de dislexia con probabilidad " +
				"baja. Se recomienda mantener seguimiento del desarrollo cognitivo."
		}
	}
	if p < 0.2 {
		return prefix + "Los resultados no indican signos significativos de dislexia. " +
			"El desempeño se encuentra dentro de los rangos esperados."
	}
	return prefix + "No se detectó dislexia, pero algunos indicadores están cerca del umbral. " +
		"Se recomienda mantener seguimiento y reforzar las áreas con desempeño más bajo."
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
