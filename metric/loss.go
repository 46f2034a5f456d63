package metric

import (
	"github.com/sugarme/gotch/ts"
)

// LogCoshLoss computes mean(log(cosh(y - yPrime + 1e-12))).
// It behaves like L2 near zero and like L1 for large residuals.
func LogCoshLoss(y, yPrime *ts.Tensor) *ts.Tensor {
	diff := y.MustSub(yPrime, false)
	shifted := diff.MustAddScalar(ts.FloatScalar(1e-12), true)
	cosh := shifted.MustCosh(true)
	logc := cosh.MustLog(true)

	return logc.MustMean(logc.DType(), true)
}

// BinaryCrossEntropy computes -(t*log(p) + (1-t)*log(1-p)) element-wise.
// Log terms are clamped at -100. The mean is returned when reduce is true.
func BinaryCrossEntropy(p, t *ts.Tensor, reduce bool) *ts.Tensor {
	logp := p.MustLog(false).MustClampMin(ts.FloatScalar(-100), true)
	q := oneMinus(p, false)
	logq := q.MustLog(true).MustClampMin(ts.FloatScalar(-100), true)
	tq := oneMinus(t, false)

	pos := t.MustMul(logp, false)
	logp.MustDrop()
	neg := tq.MustMul(logq, true)
	logq.MustDrop()
	sum := pos.MustAdd(neg, true)
	neg.MustDrop()
	bce := sum.MustNeg(true)
	if !reduce {
		return bce
	}

	return bce.MustMean(bce.DType(), true)
}

// FocalLoss down-weights well classified examples of a binary
// classification: alpha * (1-pt)^gamma * BCE with pt = exp(-BCE).
// Inputs are probabilities.
// Ref. https://arxiv.org/abs/1708.02002
type FocalLoss struct {
	Alpha  float64
	Gamma  float64
	Reduce bool // mean over all elements
}

// NewFocalLoss creates FocalLoss with alpha 1, gamma 2 and mean reduction.
func NewFocalLoss() *FocalLoss {
	return &FocalLoss{Alpha: 1, Gamma: 2, Reduce: true}
}

// Forward computes the loss of probabilities against binary targets.
func (l *FocalLoss) Forward(inputs, targets *ts.Tensor) *ts.Tensor {
	bce := BinaryCrossEntropy(inputs, targets, false)
	pt := bce.MustNeg(false).MustExp(true)
	weight := oneMinus(pt, true).MustPowTensorScalar(ts.FloatScalar(l.Gamma), true)

	loss := weight.MustMul(bce, true).MustMulScalar(ts.FloatScalar(l.Alpha), true)
	bce.MustDrop()
	if !l.Reduce {
		return loss
	}

	return loss.MustMean(loss.DType(), true)
}

// MSE computes the mean squared error between x and y.
func MSE(x, y *ts.Tensor) *ts.Tensor {
	diff := x.MustSub(y, false)
	sq := diff.MustSquare(true)

	return sq.MustMean(sq.DType(), true)
}

// oneMinus returns 1 - x.
func oneMinus(x *ts.Tensor, del bool) *ts.Tensor {
	return x.MustMulScalar(ts.FloatScalar(-1), del).MustAddScalar(ts.FloatScalar(1), true)
}
