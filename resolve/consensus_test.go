package resolve

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mager/slipmat/logger"
	"github.com/mager/slipmat/slipmat"
)

func sample(tempo float64, key, mode int) slipmat.FeatureSample {
	return slipmat.FeatureSample{Tempo: fPtr(tempo), Key: iPtr(key), Mode: iPtr(mode)}
}

func TestEnrichConsensusBonuses(t *testing.T) {
	log, _ := logger.NewTestLogger()
	features := &fakeFeatures{samples: map[string]slipmat.FeatureSample{
		// three pressings agreeing on 128 BPM / 8A, one cover at a
		// different tempo and key, one candidate with no features
		"p1":    sample(128.2, 9, 0),
		"p2":    sample(127.8, 9, 0),
		"p3":    sample(128.4, 9, 0),
		"cover": sample(95.0, 0, 1),
	}}
	en := NewEnricher(log, features, DefaultConsensusPolicy())

	cands := []ScoredCandidate{
		{Candidate: Candidate{ID: "cover", Popularity: 80}, Score: 0.9, EnhancedScore: 0.9},
		{Candidate: Candidate{ID: "p1", Popularity: 50}, Score: 0.85, EnhancedScore: 0.85},
		{Candidate: Candidate{ID: "p2", Popularity: 40}, Score: 0.85, EnhancedScore: 0.85},
		{Candidate: Candidate{ID: "p3", Popularity: 30}, Score: 0.85, EnhancedScore: 0.85},
		{Candidate: Candidate{ID: "bare", Popularity: 90}, Score: 0.85, EnhancedScore: 0.85},
	}
	out := en.Enrich(context.Background(), cands)

	byID := make(map[string]ScoredCandidate)
	for _, c := range out {
		byID[c.ID] = c
	}

	// presence 0.3 + BPM agreement 0.1 + key agreement 0.1
	if got, want := byID["p1"].EnhancedScore, 0.85+0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("p1 enhanced = %v, want %v", got, want)
	}
	// cover has features but agrees with nobody: presence only
	if got, want := byID["cover"].EnhancedScore, 0.9+0.3; math.Abs(got-want) > 1e-9 {
		t.Errorf("cover enhanced = %v, want %v", got, want)
	}
	// no sample, no bonus
	if got := byID["bare"].EnhancedScore; got != 0.85 {
		t.Errorf("bare enhanced = %v, want unchanged 0.85", got)
	}
	if byID["p1"].Camelot != "8A" || byID["p1"].KeyName != "A min" {
		t.Errorf("p1 key = %s / %s, want 8A / A min", byID["p1"].Camelot, byID["p1"].KeyName)
	}
	if byID["p1"].BPM == nil || *byID["p1"].BPM != 128 {
		t.Error("p1 BPM should round to 128")
	}

	// agreeing pressings outrank the more popular cover after enrichment
	if out[0].ID != "p1" {
		t.Errorf("first after enrich = %s, want p1", out[0].ID)
	}
}

func TestEnrichAgreementCap(t *testing.T) {
	log, _ := logger.NewTestLogger()
	samples := make(map[string]slipmat.FeatureSample)
	cands := make([]ScoredCandidate, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		samples[id] = sample(120, 0, 1)
		cands = append(cands, ScoredCandidate{Candidate: Candidate{ID: id}, Score: 0.6, EnhancedScore: 0.6})
	}
	en := NewEnricher(log, &fakeFeatures{samples: samples}, DefaultConsensusPolicy())

	out := en.Enrich(context.Background(), cands)
	// eight-way agreement would be 0.35 per signal uncapped; the cap holds
	// each signal at 0.2, so the total bonus is 0.3 + 0.2 + 0.2
	if got, want := out[0].EnhancedScore, 0.6+0.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("enhanced = %v, want %v", got, want)
	}
}

func TestEnrichDegradesOnFeatureFailure(t *testing.T) {
	log, logs := logger.NewTestLogger()
	en := NewEnricher(log, &fakeFeatures{err: errors.New("timeout")}, DefaultConsensusPolicy())

	cands := []ScoredCandidate{
		{Candidate: Candidate{ID: "x"}, Score: 0.8, EnhancedScore: 0.8},
	}
	out := en.Enrich(context.Background(), cands)
	if len(out) != 1 || out[0].EnhancedScore != 0.8 {
		t.Error("failed fetch must leave scores unchanged")
	}
	if out[0].BPM != nil || out[0].Camelot != "" {
		t.Error("failed fetch must leave features unset")
	}
	if logs.FilterMessage("feature fetch failed").Len() == 0 {
		t.Error("feature failure should be logged")
	}
}

func TestDescribeSamplePartialSignals(t *testing.T) {
	bpm, symbol, name := DescribeSample(slipmat.FeatureSample{Tempo: fPtr(99.6)})
	if bpm == nil || *bpm != 100 {
		t.Error("tempo-only sample should round BPM")
	}
	if symbol != "" || name != "" {
		t.Error("tempo-only sample should not invent a key")
	}

	bpm, symbol, name = DescribeSample(slipmat.FeatureSample{Key: iPtr(0), Mode: iPtr(1)})
	if bpm != nil {
		t.Error("key-only sample should not invent a BPM")
	}
	if symbol != "8B" || name != "C maj" {
		t.Errorf("key 0 major = %s / %s, want 8B / C maj", symbol, name)
	}

	bpm, symbol, _ = DescribeSample(slipmat.FeatureSample{})
	if bpm != nil || symbol != "" {
		t.Error("empty sample should describe nothing")
	}
}
