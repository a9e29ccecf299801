package domain

// Canonical feature keys. These match the source dataset column names where
// the feature is a raw covariate, and the derived-column names used by the
// reference analysis otherwise. The lexical order of these strings is the
// documented tie-break order for importance rankings.
const (
	FeatureRainfall  = "jumlah_curah_hujan"
	FeatureRainLag1  = "rain_lag1"
	FeatureRain3M    = "rain_3m_mean"
	FeatureDensity   = "kepadatan_penduduk"
	FeatureRainXDens = "rain_x_density"
	FeatureMonth     = "bulan"
)

// FeatureKeys lists every engineered feature in model input order.
func FeatureKeys() []string {
	return []string{
		FeatureRainfall,
		FeatureRainLag1,
		FeatureRain3M,
		FeatureDensity,
		FeatureRainXDens,
		FeatureMonth,
	}
}

// FeatureDisplayNames maps canonical feature keys to the Indonesian display
// names used in exported artifacts.
var FeatureDisplayNames = map[string]string{
	FeatureRainfall:  "Curah Hujan",
	FeatureRainLag1:  "Curah Hujan (Bulan Lalu)",
	FeatureRain3M:    "Rata-rata Curah Hujan 3 Bulan",
	FeatureDensity:   "Kepadatan Penduduk",
	FeatureRainXDens: "Interaksi Hujan & Kepadatan",
	FeatureMonth:     "Musim (Bulan)",
}

// FeatureDescriptions maps canonical feature keys to the exported
// factor-summary descriptions.
var FeatureDescriptions = map[string]string{
	FeatureRainfall:  "Jumlah curah hujan bulanan yang mempengaruhi perkembangbiakan nyamuk",
	FeatureRainLag1:  "Curah hujan bulan sebelumnya (efek tertunda)",
	FeatureRain3M:    "Rata-rata curah hujan dalam 3 bulan terakhir",
	FeatureDensity:   "Jumlah penduduk per km² yang mempengaruhi penyebaran",
	FeatureRainXDens: "Interaksi antara curah hujan dan kepadatan penduduk",
	FeatureMonth:     "Pengaruh musim berdasarkan bulan dalam setahun",
}

// DisplayName returns the Indonesian display name for a feature key, or the
// key itself when no mapping exists.
func DisplayName(key string) string {
	if name, ok := FeatureDisplayNames[key]; ok {
		return name
	}
	return key
}

// ScatterFactor selects the x-axis covariate of a scatter-plot artifact.
type ScatterFactor string

const (
	ScatterFactorRainfall ScatterFactor = "rainfall"
	ScatterFactorDensity  ScatterFactor = "population-density"
)

// ScatterFactors lists every scatter-plot covariate in export order.
func ScatterFactors() []ScatterFactor {
	return []ScatterFactor{ScatterFactorRainfall, ScatterFactorDensity}
}

// FeatureRow is a Record extended with the engineered feature columns.
// RainLag1 is nil at a region's first observation; consumers must branch on
// the nil rather than coerce it to zero.
type FeatureRow struct {
	Record

	RainLag1  *float64 `json:"rain_lag1"`
	Rain3M    float64  `json:"rain_3m_mean"`
	RainXDens float64  `json:"rain_x_density"`
}

// FeatureValue returns the value of the named feature and whether it is
// present. Only RainLag1 can be absent.
func (fr FeatureRow) FeatureValue(key string) (float64, bool) {
	switch key {
	case FeatureRainfall:
		return fr.Rainfall, true
	case FeatureRainLag1:
		if fr.RainLag1 == nil {
			return 0, false
		}
		return *fr.RainLag1, true
	case FeatureRain3M:
		return fr.Rain3M, true
	case FeatureDensity:
		return fr.Density, true
	case FeatureRainXDens:
		return fr.RainXDens, true
	case FeatureMonth:
		return float64(fr.Month), true
	}
	return 0, false
}
