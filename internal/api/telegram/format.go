package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"annadata/internal/domain/entity"
)

// ParseSoilArgs разбирает аргументы /soil: пять чисел N P K pH EC.
// Запятая допускается как десятичный разделитель.
func ParseSoilArgs(args string) (entity.SoilSample, error) {
	fields := strings.Fields(args)
	if len(fields) != 5 {
		return entity.SoilSample{}, errors.New("нужно пять чисел: N P K pH EC")
	}

	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return entity.SoilSample{}, fmt.Errorf("не число: %q", f)
		}
		values[i] = v
	}

	return entity.SoilSample{N: values[0], P: values[1], K: values[2], PH: values[3], EC: values[4]}, nil
}

// FormatFertility готовит ответ на /soil.
func FormatFertility(r entity.FertilityResult) string {
	if r.Status == entity.StatusSuccess {
		return "🌱 Плодородие почвы: " + r.Fertility
	}
	if r.Details != "" {
		return fmt.Sprintf("⚠️ %s (%s)", r.Fertility, r.Details)
	}
	return "⚠️ " + r.Fertility
}

// FormatInspection готовит ответ на фото; weed равен nil, если лист не найден.
func FormatInspection(leaf *entity.LeafDiagnosis, weed *entity.WeedReport) string {
	if !leaf.LeafDetected {
		return "🔍 Лист на фото не найден."
	}

	var sb strings.Builder
	if leaf.Disease == entity.DiseaseHealthy {
		sb.WriteString("✅ Лист здоров.")
	} else {
		sb.WriteString("🦠 Болезнь листа: " + leaf.Disease)
	}
	if weed != nil {
		if weed.WeedDetected {
			sb.WriteString("\n🌿 Обнаружены сорняки.")
		} else {
			sb.WriteString("\n🌾 Сорняков не найдено.")
		}
	}
	return sb.String()
}

// FormatHistory выводит строки журнала, свежие снизу.
func FormatHistory(rows []entity.HistoryRow) string {
	if len(rows) == 0 {
		return "📭 Журнал пока пуст."
	}

	var sb strings.Builder
	sb.WriteString("📋 Последние записи:")
	for _, r := range rows {
		fmt.Fprintf(&sb, "\n%s  %s: %s (%s, %s)", r.Timestamp, r.Type, r.Result, r.Latitude, r.Longitude)
	}
	return sb.String()
}
