package resolve

import (
	"context"
	"math"
	"sort"

	"github.com/mager/slipmat/camelot"
	"github.com/mager/slipmat/slipmat"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// ConsensusPolicy holds the empirically tuned feature-bonus weights. They are
// policy, not derived constants; change them here, nowhere else.
type ConsensusPolicy struct {
	// PresenceBonus is added when a candidate has both tempo and key.
	PresenceBonus float64
	// AgreementStep is added per additional candidate sharing the same
	// rounded BPM (and again for candidates sharing the same wheel symbol),
	// capped at AgreementCap per signal.
	AgreementStep float64
	AgreementCap  float64
}

// DefaultConsensusPolicy returns the tuned defaults.
func DefaultConsensusPolicy() ConsensusPolicy {
	return ConsensusPolicy{
		PresenceBonus: 0.3,
		AgreementStep: 0.05,
		AgreementCap:  0.2,
	}
}

// Enricher attaches tempo and key to candidates and, in ranked mode, scores
// how well each candidate's musical fingerprint agrees with the pool.
type Enricher struct {
	log      *zap.SugaredLogger
	features FeatureSource
	policy   ConsensusPolicy
}

// NewEnricher builds an Enricher over a feature source.
func NewEnricher(log *zap.SugaredLogger, features FeatureSource, policy ConsensusPolicy) *Enricher {
	return &Enricher{log: log, features: features, policy: policy}
}

// Samples fetches feature samples for ids, degrading to an empty map on
// upstream failure. Missing ids are simply absent.
func (en *Enricher) Samples(ctx context.Context, ids []string) map[string]slipmat.FeatureSample {
	if len(ids) == 0 {
		return map[string]slipmat.FeatureSample{}
	}
	samples, err := en.features.BatchFeatures(ctx, ids)
	if err != nil {
		en.log.Warnw("feature fetch failed", "ids", len(ids), "error", err)
		return map[string]slipmat.FeatureSample{}
	}
	return samples
}

// DescribeSample converts a feature sample to a rounded BPM and wheel key.
// Any of the results may be zero-valued when the sample lacks that signal.
func DescribeSample(s slipmat.FeatureSample) (bpm *int, symbol, keyName string) {
	if s.HasTempo() {
		b := int(math.Round(*s.Tempo))
		bpm = &b
	}
	if s.HasKey() {
		if k, ok := camelot.FromPitch(*s.Key, *s.Mode); ok {
			symbol = k.Symbol
			keyName = k.Name
		}
	}
	return bpm, symbol, keyName
}

// Enrich attaches tempo and key to every candidate, adds the presence and
// consensus bonuses, and re-sorts by enhanced score. Candidates whose BPM and
// key agree with the plurality of the pool drift upward: multiple pressings
// of one recording agree on tempo and key, an unrelated cover does not.
func (en *Enricher) Enrich(ctx context.Context, cands []ScoredCandidate) []ScoredCandidate {
	if len(cands) == 0 {
		return cands
	}

	ids := make([]string, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.ID)
	}
	samples := en.Samples(ctx, ids)

	bpmCount := make(map[int]int)
	keyCount := make(map[string]int)
	for i := range cands {
		s, ok := samples[cands[i].ID]
		if !ok {
			continue
		}
		cands[i].BPM, cands[i].Camelot, cands[i].KeyName = DescribeSample(s)
		if cands[i].BPM != nil {
			bpmCount[*cands[i].BPM]++
		}
		if cands[i].Camelot != "" {
			keyCount[cands[i].Camelot]++
		}
	}

	// a value only one candidate carries is no consensus; prune it so the
	// bonus loop below sees the agreed sets alone
	maps.DeleteFunc(bpmCount, func(_ int, n int) bool { return n <= 1 })
	maps.DeleteFunc(keyCount, func(_ string, n int) bool { return n <= 1 })
	if len(bpmCount) > 0 || len(keyCount) > 0 {
		en.log.Debugw("feature consensus pool",
			"bpms", maps.Keys(bpmCount),
			"keys", maps.Keys(keyCount),
		)
	}

	for i := range cands {
		bonus := 0.0
		if cands[i].BPM != nil && cands[i].Camelot != "" {
			bonus += en.policy.PresenceBonus
		}
		if cands[i].BPM != nil {
			bonus += en.agreement(bpmCount[*cands[i].BPM])
		}
		if cands[i].Camelot != "" {
			bonus += en.agreement(keyCount[cands[i].Camelot])
		}
		cands[i].EnhancedScore = cands[i].Score + bonus
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].EnhancedScore != cands[j].EnhancedScore {
			return cands[i].EnhancedScore > cands[j].EnhancedScore
		}
		return cands[i].Popularity > cands[j].Popularity
	})
	return cands
}

func (en *Enricher) agreement(count int) float64 {
	if count <= 1 {
		return 0
	}
	return math.Min(en.policy.AgreementCap, en.policy.AgreementStep*float64(count-1))
}
