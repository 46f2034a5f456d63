package base

import (
	"fmt"
	"log"

	"github.com/sugarme/gotch/ts"
)

// PoolKind selects the down-sampling operator of a strided block.
type PoolKind int

const (
	MaxPool PoolKind = iota
	AvgPool
)

// String implements fmt.Stringer.
func (k PoolKind) String() string {
	switch k {
	case MaxPool:
		return "max"
	case AvgPool:
		return "avg"
	default:
		return fmt.Sprintf("PoolKind(%d)", int(k))
	}
}

// ParsePoolKind parses "max" or "avg".
func ParsePoolKind(s string) (PoolKind, error) {
	switch s {
	case "max":
		return MaxPool, nil
	case "avg":
		return AvgPool, nil
	default:
		return 0, fmt.Errorf("unknown pool kind %q", s)
	}
}

// Pool is a non-overlapping pooling with window == stride.
type Pool struct {
	Kind   PoolKind
	Stride int64
	dims   int
}

// NewPool1d creates a Pool over [B C L] inputs.
func NewPool1d(kind PoolKind, stride int64) *Pool {
	return newPool(kind, stride, 1)
}

// NewPool2d creates a Pool over [B C H W] inputs.
func NewPool2d(kind PoolKind, stride int64) *Pool {
	return newPool(kind, stride, 2)
}

func newPool(kind PoolKind, stride int64, dims int) *Pool {
	if kind != MaxPool && kind != AvgPool {
		log.Fatalf("Unsupported pool kind: %v\n", kind)
	}

	return &Pool{Kind: kind, Stride: stride, dims: dims}
}

// Forward implements ts.Module for Pool struct.
// Trailing elements that do not fill a window are dropped (floor mode).
func (p *Pool) Forward(x *ts.Tensor) *ts.Tensor {
	s := p.Stride
	if p.dims == 1 {
		k := []int64{s}
		if p.Kind == MaxPool {
			return x.MustMaxPool1d(k, k, []int64{0}, []int64{1}, false, false)
		}
		return x.MustAvgPool1d(k, k, []int64{0}, false, true, false)
	}

	k := []int64{s, s}
	if p.Kind == MaxPool {
		return x.MustMaxPool2d(k, k, []int64{0, 0}, []int64{1, 1}, false, false)
	}
	return x.MustAvgPool2d(k, k, []int64{0, 0}, false, true, nil, false)
}
