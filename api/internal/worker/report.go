package worker

import (
	"fmt"
	"strings"
	"time"

	"lookism-bot/api/internal/engine"
)

// buildReportPrompt собирает user-промпт генерации отчёта: данные анализа
// плюс шаблон, который модель дозаполняет (оценка и план улучшений).
func buildReportPrompt(res *Result, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("ДАННЫЕ ДЛЯ АНАЛИЗА:\n")
	fmt.Fprintf(&sb, "composite_rating: %.1f\n", res.Rating.CompositeRating)
	fmt.Fprintf(&sb, "base_rating: %.1f\n", res.Rating.BaseRating)
	fmt.Fprintf(&sb, "label: %s\n", res.Rating.Label)
	if len(res.Rating.WeakMetrics) > 0 {
		fmt.Fprintf(&sb, "weak_metrics: %s\n", strings.Join(res.Rating.WeakMetrics, ", "))
	}
	fmt.Fprintf(&sb, "symmetry: %.2f\n", res.Symmetry)
	fmt.Fprintf(&sb, "skin_score: %.1f\n", res.Skin.SkinScore)
	fmt.Fprintf(&sb, "age: %d\ngender: %s\n", res.Age, res.Gender)
	for _, id := range metricOrder {
		mv, ok := res.Metrics[id]
		if !ok || mv.Unavailable {
			continue
		}
		fmt.Fprintf(&sb, "%s: %.1f %s\n", id, mv.Value, mv.Unit)
	}

	sb.WriteString("\nЗАДАЧА:\nЗаполни ШАБЛОН ОТЧЁТА, используя ДАННЫЕ. Сгенерируй содержимое для {tier_label}, {summary_paragraph} и {ПЛАН УЛУЧШЕНИЙ}, следуя всем правилам из системного промпта.\n")

	sb.WriteString("\nШАБЛОН ОТЧЁТА:\n")
	sb.WriteString("🏷️ РЕЙТИНГ И КАТЕГОРИЯ\n")
	fmt.Fprintf(&sb, "Композитный рейтинг: %.1f/10\n", res.Rating.CompositeRating)
	fmt.Fprintf(&sb, "Категория: %s\n\n", res.Rating.Label)
	sb.WriteString("────────────────────────────────\n📊 ДЕТАЛЬНЫЙ АНАЛИЗ МЕТРИК\n────────────────────────────────\n")
	sb.WriteString(metricsBlock(res))
	sb.WriteString("────────────────────────────────\n💬 ЧЕСТНАЯ ОЦЕНКА\n{summary_paragraph}\n────────────────────────────────\n\n")
	sb.WriteString("📌 ПЛАН УЛУЧШЕНИЙ\n{ПЛАН УЛУЧШЕНИЙ}\n\n")
	sb.WriteString("────────────────────────────────\n")
	fmt.Fprintf(&sb, "• Повторный анализ: %s\n", now.AddDate(0, 0, 30).Format("2006-01-02"))

	return sb.String()
}

var metricOrder = []engine.MetricID{
	engine.MetricGonialAngle,
	engine.MetricBizygomaticW,
	engine.MetricBigonialW,
	engine.MetricJawProminence,
	engine.MetricFWHR,
	engine.MetricCanthalTilt,
	engine.MetricInterpupillary,
	engine.MetricEyeAspectRatio,
	engine.MetricMidfaceRatio,
	engine.MetricNasofrontal,
}

// metricsBlock — читабельный блок метрик по категориям для шаблона отчёта.
func metricsBlock(res *Result) string {
	line := func(label string, id engine.MetricID, unit string, signed bool) string {
		mv, ok := res.Metrics[id]
		if !ok || mv.Unavailable {
			return ""
		}
		if signed {
			return fmt.Sprintf("• %s %+.1f%s\n", label, mv.Value, unit)
		}
		return fmt.Sprintf("• %s %.1f%s\n", label, mv.Value, unit)
	}

	var sb strings.Builder
	sb.WriteString("🔸 Костная база\n")
	sb.WriteString(line("Гониальный угол", engine.MetricGonialAngle, "°", false))
	sb.WriteString(line("Bizygomatic", engine.MetricBizygomaticW, " px", false))
	sb.WriteString(line("Bigonial", engine.MetricBigonialW, " px", false))
	sb.WriteString(line("Jaw prominence", engine.MetricJawProminence, "", false))
	sb.WriteString(line("FWHR", engine.MetricFWHR, "", false))
	sb.WriteString("\n🔸 Глаза\n")
	sb.WriteString(line("Кантальный наклон", engine.MetricCanthalTilt, "°", true))
	sb.WriteString(line("Interpupillary distance", engine.MetricInterpupillary, " px", false))
	sb.WriteString(line("Eye W/H ratio", engine.MetricEyeAspectRatio, "", false))
	sb.WriteString("\n🔸 Пропорции\n")
	sb.WriteString(line("Midface ratio", engine.MetricMidfaceRatio, "", false))
	sb.WriteString(line("Назофронтальный угол", engine.MetricNasofrontal, "°", false))
	sb.WriteString("\n🔸 Кожа\n")
	fmt.Fprintf(&sb, "• SkinScore %.1f/100\n", res.Skin.SkinScore)
	fmt.Fprintf(&sb, "• Acne index %.1f\n", res.Skin.Acne)
	fmt.Fprintf(&sb, "• Stain index %.1f\n", res.Skin.Stain)
	return sb.String()
}
