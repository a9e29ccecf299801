package domain

// AllYears is the partition label for the model trained on the full panel.
const AllYears = 0

// FeatureImportance is one (feature, importance) pair from a trained model.
// Importances across a partition sum to 1.0 within floating tolerance.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelReport holds everything downstream stages consume from one trained
// partition. Year is AllYears for the global model.
type ModelReport struct {
	Year        int                 `json:"year"`
	ModelType   string              `json:"model_type"`
	Features    []string            `json:"features_used"`
	TrainScore  float64             `json:"training_accuracy"`
	TestScore   float64             `json:"test_accuracy"`
	SampleCount int                 `json:"total_data_points"`
	Importances []FeatureImportance `json:"feature_importance"`
}

// TopFactors returns the n highest-ranked importances. The Importances
// slice is already ranked by the trainer (importance descending, feature
// name ascending on ties), so this is a plain prefix.
func (mr ModelReport) TopFactors(n int) []FeatureImportance {
	if n > len(mr.Importances) {
		n = len(mr.Importances)
	}
	return mr.Importances[:n]
}
