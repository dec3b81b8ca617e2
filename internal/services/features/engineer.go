package features

import (
	"math"

	"TrendCast/internal/domain/models"
)

// Feature column names. TargetColumn exists only on training rows.
const (
	ColRet1D         = "ret_1d"
	ColMA5           = "ma_5"
	ColMA10          = "ma_10"
	ColCloseOverMA5  = "close_over_ma5"
	ColCloseOverMA10 = "close_over_ma10"
	ColVol5          = "vol_5"
	ColVol10         = "vol_10"
	ColVolChg1D      = "volchg_1d"

	TargetColumn = "target_up_tomorrow"
)

// Mode selects whether rows carry the shifted next-day label.
type Mode int

const (
	Inference Mode = iota
	Training
)

// LongestWindow is the largest trailing window any feature needs. No row can
// exist before this much history has accumulated.
const LongestWindow = 10

// DefaultSchema returns the ordered feature columns models are trained on.
func DefaultSchema() models.FeatureSchema {
	return models.FeatureSchema{
		ColRet1D,
		ColCloseOverMA5,
		ColCloseOverMA10,
		ColVol5,
		ColVol10,
		ColVolChg1D,
	}
}

// Build derives the ordered feature rows from ascending-by-day bars for one
// symbol. All derivations are causal: only past and current bars inform a
// row. A row is emitted only once every computed column is defined; in
// training mode the final bar has no next-day label and is dropped. The
// function is pure, so training and inference share it verbatim - identical
// bars always yield identical rows.
func Build(bars []models.Bar, mode Mode) []models.FeatureRow {
	n := len(bars)
	if n == 0 {
		return nil
	}

	ret1d := make([]float64, n)
	volchg := make([]float64, n)
	ret1d[0] = math.NaN()
	volchg[0] = math.NaN()
	for i := 1; i < n; i++ {
		ret1d[i] = pctChange(bars[i].Close, bars[i-1].Close)
		volchg[i] = pctChange(bars[i].Volume, bars[i-1].Volume)
	}

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}
	ma5 := rollingMean(closes, 5)
	ma10 := rollingMean(closes, 10)
	vol5 := rollingStd(ret1d, 5)
	vol10 := rollingStd(ret1d, 10)

	rows := make([]models.FeatureRow, 0, n)
	for i := 0; i < n; i++ {
		values := map[string]float64{
			ColRet1D:         ret1d[i],
			ColMA5:           ma5[i],
			ColMA10:          ma10[i],
			ColCloseOverMA5:  ratioMinusOne(bars[i].Close, ma5[i]),
			ColCloseOverMA10: ratioMinusOne(bars[i].Close, ma10[i]),
			ColVol5:          vol5[i],
			ColVol10:         vol10[i],
			ColVolChg1D:      volchg[i],
		}
		if anyUndefined(values) {
			continue
		}

		row := models.FeatureRow{Day: bars[i].Day, Values: values}
		if mode == Training {
			if i == n-1 {
				continue // no tomorrow to label
			}
			row.HasLabel = true
			if bars[i+1].Close > bars[i].Close {
				row.Target = 1
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// pctChange computes v/prev - 1, undefined when prev is zero.
func pctChange(v, prev float64) float64 {
	if prev == 0 {
		return math.NaN()
	}
	return v/prev - 1
}

// ratioMinusOne computes v/base - 1, undefined when base is zero or itself
// undefined.
func ratioMinusOne(v, base float64) float64 {
	if base == 0 || math.IsNaN(base) {
		return math.NaN()
	}
	return v/base - 1
}

// rollingMean computes the trailing simple mean over the last window values
// inclusive. Entries without enough history are NaN.
func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i := range xs {
		sum += xs[i]
		if i >= window {
			sum -= xs[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// rollingStd computes the trailing sample standard deviation (ddof=1) over
// the last window values inclusive. A window containing any undefined entry
// is itself undefined.
func rollingStd(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		defined := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(xs[j]) {
				defined = false
				break
			}
			sum += xs[j]
		}
		if !defined {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := xs[j] - mean
			ss += d * d
		}
		variance := ss / float64(window-1)
		if variance < 0 {
			variance = 0
		}
		out[i] = math.Sqrt(variance)
	}
	return out
}

func anyUndefined(values map[string]float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
