package analytics

import (
	"math"

	"github.com/ignite/mailpulse/internal/domain"
)

// ScoreWeights are the fixed weights of the composite health score. They
// must sum to 1.0; fixed weights (rather than a learned model) keep the
// score explainable and stable for the dashboard.
type ScoreWeights struct {
	Deliverability float64 `yaml:"deliverability"`
	Engagement     float64 `yaml:"engagement"`
	AntiSpam       float64 `yaml:"anti_spam"`
	Warmup         float64 `yaml:"warmup"`
	Reputation     float64 `yaml:"reputation"`
}

// ReputationScores bundles the external reputation sub-scores (each 0-100).
// When no reputation data is available the scorer substitutes the neutral
// defaults from ScoreConfig.
type ReputationScores struct {
	Deliverability int `yaml:"deliverability"`
	Spam           int `yaml:"spam"`
	Bounce         int `yaml:"bounce"`
	Engagement     int `yaml:"engagement"`
	Warmup         int `yaml:"warmup"`
}

// ScoreConfig carries the tunable constants of the health scorer. The
// neutral reputation defaults are placeholders pending product sign-off;
// they live in config, not in the scoring path.
type ScoreConfig struct {
	Weights           ScoreWeights     `yaml:"weights"`
	NeutralReputation ReputationScores `yaml:"neutral_reputation"`
	// WarmupBoost scales warmup progress before capping at 100, so an IP
	// that is most of the way through warmup is not penalized forever.
	WarmupBoost float64 `yaml:"warmup_boost"`
}

// DefaultScoreConfig returns the standard weights and neutral defaults.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Weights: ScoreWeights{
			Deliverability: 0.30,
			Engagement:     0.25,
			AntiSpam:       0.20,
			Warmup:         0.15,
			Reputation:     0.10,
		},
		NeutralReputation: ReputationScores{
			Deliverability: 80,
			Spam:           85,
			Bounce:         85,
			Engagement:     75,
			Warmup:         75,
		},
		WarmupBoost: 1.2,
	}
}

// HealthScore combines rates, warmup progress (0-100), and reputation
// sub-scores into one 0-100 composite. rep may be nil, in which case the
// neutral defaults apply. The result is always in [0, 100], including for
// all-zero metrics with zero warmup progress.
func HealthScore(r domain.RateSet, warmupProgress int, rep *ReputationScores, cfg ScoreConfig) int {
	if rep == nil {
		n := cfg.NeutralReputation
		rep = &n
	}

	deliverability := clampPct(r.Delivery * 100)
	engagement := clampPct((r.Open + r.Click) / 2 * 100)
	antiSpam := math.Max(0, 100-2*(r.Bounce+r.Spam)*100)

	progress := float64(clampScore(warmupProgress))
	warmup := math.Min(100, progress*cfg.WarmupBoost)

	reputation := float64(clampScore(rep.Deliverability)+
		clampScore(rep.Spam)+
		clampScore(rep.Bounce)+
		clampScore(rep.Engagement)+
		clampScore(rep.Warmup)) / 5

	w := cfg.Weights
	score := w.Deliverability*deliverability +
		w.Engagement*engagement +
		w.AntiSpam*antiSpam +
		w.Warmup*warmup +
		w.Reputation*reputation

	return clampScore(int(math.Round(score)))
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
