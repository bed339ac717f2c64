package observability

import (
	"sync/atomic"
)

// PipelineStats agrège les compteurs du pipeline pour la télémétrie.
// All counters are atomic: they are bumped from many session goroutines.
type PipelineStats struct {
	UtterancesTranscribed uint64
	TranslationsProduced  uint64
	SynthesesProduced     uint64
	ProviderFailures      uint64
	DeliveriesDropped     uint64
	SegmentsPersisted     uint64
	PersistenceFailures   uint64
}

// StatsSnapshot is a point-in-time copy safe to log or serve.
type StatsSnapshot struct {
	UtterancesTranscribed uint64 `json:"utterances_transcribed"`
	TranslationsProduced  uint64 `json:"translations_produced"`
	SynthesesProduced     uint64 `json:"syntheses_produced"`
	ProviderFailures      uint64 `json:"provider_failures"`
	DeliveriesDropped     uint64 `json:"deliveries_dropped"`
	SegmentsPersisted     uint64 `json:"segments_persisted"`
	PersistenceFailures   uint64 `json:"persistence_failures"`
}

func NewPipelineStats() *PipelineStats {
	return &PipelineStats{}
}

func (s *PipelineStats) IncrUtterances() {
	atomic.AddUint64(&s.UtterancesTranscribed, 1)
}

func (s *PipelineStats) IncrTranslations() {
	atomic.AddUint64(&s.TranslationsProduced, 1)
}

func (s *PipelineStats) IncrSyntheses() {
	atomic.AddUint64(&s.SynthesesProduced, 1)
}

func (s *PipelineStats) IncrProviderFailures() {
	atomic.AddUint64(&s.ProviderFailures, 1)
}

func (s *PipelineStats) IncrDroppedDeliveries() {
	atomic.AddUint64(&s.DeliveriesDropped, 1)
}

func (s *PipelineStats) IncrSegmentsPersisted() {
	atomic.AddUint64(&s.SegmentsPersisted, 1)
}

func (s *PipelineStats) IncrPersistenceFailures() {
	atomic.AddUint64(&s.PersistenceFailures, 1)
}

func (s *PipelineStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		UtterancesTranscribed: atomic.LoadUint64(&s.UtterancesTranscribed),
		TranslationsProduced:  atomic.LoadUint64(&s.TranslationsProduced),
		SynthesesProduced:     atomic.LoadUint64(&s.SynthesesProduced),
		ProviderFailures:      atomic.LoadUint64(&s.ProviderFailures),
		DeliveriesDropped:     atomic.LoadUint64(&s.DeliveriesDropped),
		SegmentsPersisted:     atomic.LoadUint64(&s.SegmentsPersisted),
		PersistenceFailures:   atomic.LoadUint64(&s.PersistenceFailures),
	}
}
