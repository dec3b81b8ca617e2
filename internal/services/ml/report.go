package ml

import "TrendCast/internal/domain/models"

// Accuracy is the fraction of predictions matching actual labels.
func Accuracy(actual, predicted []int) float64 {
	if len(actual) == 0 {
		return 0
	}
	hits := 0
	for i := range actual {
		if actual[i] == predicted[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(actual))
}

// ConfusionMatrix counts outcomes in label order: rows are actual class,
// columns are predicted class.
func ConfusionMatrix(actual, predicted []int) [2][2]int {
	var cm [2][2]int
	for i := range actual {
		cm[actual[i]][predicted[i]]++
	}
	return cm
}

// ClassificationReport computes per-class precision, recall, F1 and support
// for both classes. Classes with no predictions or no support report zero
// rather than NaN.
func ClassificationReport(actual, predicted []int) []models.ClassStats {
	cm := ConfusionMatrix(actual, predicted)
	report := make([]models.ClassStats, 0, 2)
	for label := 0; label <= 1; label++ {
		tp := cm[label][label]
		predTotal := cm[0][label] + cm[1][label]
		support := cm[label][0] + cm[label][1]

		var precision, recall, f1 float64
		if predTotal > 0 {
			precision = float64(tp) / float64(predTotal)
		}
		if support > 0 {
			recall = float64(tp) / float64(support)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report = append(report, models.ClassStats{
			Label:     label,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		})
	}
	return report
}
