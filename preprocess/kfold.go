package preprocess

import "log"

// Fold holds train and validation indices of one split.
type Fold struct {
	Train []int
	Valid []int
}

// KFold splits n items into NSplit contiguous validation folds without
// shuffling. The first n%NSplit folds hold one extra item.
type KFold struct {
	NSplit int
}

// NewKFold creates KFold with 5 splits unless given. Fewer than 2 splits
// is fatal.
func NewKFold(nSplitOpt ...int) *KFold {
	nSplit := 5
	if len(nSplitOpt) > 0 {
		nSplit = nSplitOpt[0]
	}
	if nSplit < 2 {
		log.Fatalf("KFold needs at least 2 splits. Got %d\n", nSplit)
	}

	return &KFold{NSplit: nSplit}
}

// Split returns NSplit folds over indices [0, n). n must be at least NSplit.
func (k *KFold) Split(n int) []Fold {
	if k.NSplit < 2 || n < k.NSplit {
		log.Fatalf("Cannot split %d items into %d folds\n", n, k.NSplit)
	}

	folds := make([]Fold, 0, k.NSplit)
	start := 0
	for i := 0; i < k.NSplit; i++ {
		size := n / k.NSplit
		if i < n%k.NSplit {
			size++
		}
		end := start + size

		var f Fold
		for j := 0; j < n; j++ {
			if j >= start && j < end {
				f.Valid = append(f.Valid, j)
			} else {
				f.Train = append(f.Train, j)
			}
		}
		folds = append(folds, f)
		start = end
	}

	return folds
}
