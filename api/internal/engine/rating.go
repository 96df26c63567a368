package engine

import (
	"sort"

	"github.com/samber/lo"
)

// RatingResult — итог агрегации: базовый и композитный рейтинг 0–10,
// категория по таблице и список слабых метрик.
type RatingResult struct {
	BaseRating      float64  `json:"base_rating"`
	CompositeRating float64  `json:"composite_rating"`
	Label           string   `json:"label"`
	WeakMetrics     []string `json:"weak_metrics"`
}

// Aggregator — чистый агрегатор рейтинга поверх проверенной конфигурации.
// Состояния между вызовами не держит, безопасен для конкурентного вызова.
type Aggregator struct {
	cfg *Config
}

// NewAggregator валидирует конфигурацию и строит агрегатор.
// Дефект конфигурации — ConfigurationError на старте, не per-call.
func NewAggregator(cfg *Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg}, nil
}

// Config возвращает конфигурацию, с которой построен агрегатор.
func (a *Aggregator) Config() *Config { return a.cfg }

// component возвращает вклад 0–10 метрики в композит. Недоступная метрика
// даёт задокументированный worst-case, а не выпадает из суммы —
// выпадение молча перевесило бы остальные компоненты.
func (a *Aggregator) component(ms MetricSet, id MetricID) float64 {
	d, ok := a.cfg.metric(id)
	if !ok {
		return 0
	}
	mv, ok := ms[id]
	if !ok || mv.Unavailable {
		return d.WorstCase
	}
	return d.Component(mv.Value)
}

// Aggregate считает рейтинг из MetricSet и двух внешних оценок качества.
// beauty и symmetry ожидаются на шкале 0–100 (контракт конфигурации, не угадывание).
func (a *Aggregator) Aggregate(ms MetricSet, beauty, symmetry float64) RatingResult {
	beautyNorm := clamp(beauty/10, 0, 10)
	symmetryNorm := clamp(symmetry/10, 0, 10)

	w := a.cfg.Weights
	composite := w.Beauty*beautyNorm +
		w.Canthal*a.component(ms, MetricCanthalTilt) +
		w.Gonial*a.component(ms, MetricGonialAngle) +
		w.Symmetry*symmetryNorm +
		w.Midface*a.component(ms, MetricMidfaceRatio)
	composite = clamp(composite, 0, 10)

	return RatingResult{
		BaseRating:      beautyNorm,
		CompositeRating: composite,
		Label:           a.Label(composite),
		WeakMetrics:     a.WeakMetrics(ms),
	}
}

// Label выбирает категорию по полуинтервальной таблице: граница принадлежит
// верхнему бакету, последний бакет закрыт сверху.
func (a *Aggregator) Label(composite float64) string {
	bands := a.cfg.Labels
	for i, b := range bands {
		if composite >= b.Lo && composite < b.Hi {
			return b.Label
		}
		if i == len(bands)-1 && composite == b.Hi {
			return b.Label
		}
	}
	// валидация гарантирует покрытие [0,10]; сюда попадает только значение вне шкалы
	if composite < bands[0].Lo {
		return bands[0].Label
	}
	return bands[len(bands)-1].Label
}

// WeakMetrics отбирает метрики вне допустимого диапазона, включая недоступные.
// Результат отсортирован — вывод детерминирован для одного и того же входа.
func (a *Aggregator) WeakMetrics(ms MetricSet) []string {
	weak := lo.FilterMap(a.cfg.Metrics, func(d MetricDef, _ int) (string, bool) {
		mv, ok := ms[d.ID]
		if !ok || mv.Unavailable {
			return string(d.ID), true
		}
		return string(d.ID), !d.Acceptable.Contains(mv.Value)
	})
	sort.Strings(weak)
	return weak
}
