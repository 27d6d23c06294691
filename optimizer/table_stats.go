package optimizer

import (
	"fmt"
	"math"

	"github.com/shubhamnegi/simpledb/execution"
	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

// NumHistBins is the bucket count used by every histogram TableStats
// builds. 100 buckets keeps per-value resolution reasonable without
// scanning cost dominated by histogram bookkeeping.
const NumHistBins = 100

// TableStats holds per-column histograms and row-count statistics for
// one table, computed by a two-pass scan: the first pass finds each INT
// column's [min, max] (STRING columns build their histogram inline,
// since StringHistogram has no min/max dependency), the second pass
// populates the INT histograms now that their ranges are known.
type TableStats struct {
	tableID       uint64
	ioCostPerPage int
	totalTuples   int
	numPages      int

	intHist    map[int]*IntHistogram
	stringHist map[int]*StringHistogram
	td         *storage.TupleDesc
}

// NewTableStats scans tableID's full contents under a dedicated
// transaction, committing it once the scan completes.
func NewTableStats(tableID uint64, ioCostPerPage int, resolver storage.FileResolver, pool *storage.BufferPool) (*TableStats, error) {
	hf, err := resolver.ResolveFile(tableID)
	if err != nil {
		return nil, err
	}
	td := hf.TupleDesc()

	tid := types.NewTxID()
	scan, err := execution.NewSeqScan(tid, tableID, "", pool, resolver)
	if err != nil {
		return nil, err
	}

	mins := make(map[int]int32)
	maxs := make(map[int]int32)
	haveRange := make(map[int]bool)
	stringHist := make(map[int]*StringHistogram)
	total := 0

	if err := scan.Open(); err != nil {
		return nil, err
	}
	for {
		ok, err := scan.HasNext()
		if err != nil {
			scan.Close()
			return nil, err
		}
		if !ok {
			break
		}
		t, err := scan.Next()
		if err != nil {
			scan.Close()
			return nil, err
		}
		total++
		for i := 0; i < td.NumFields(); i++ {
			ft, _ := td.FieldType(i)
			f, err := t.Field(i)
			if err != nil {
				scan.Close()
				return nil, err
			}
			switch ft {
			case types.IntType:
				v := f.(types.IntField).Value
				if !haveRange[i] || v < mins[i] {
					mins[i] = v
				}
				if !haveRange[i] || v > maxs[i] {
					maxs[i] = v
				}
				haveRange[i] = true
			case types.StringType:
				sh, ok := stringHist[i]
				if !ok {
					sh = NewStringHistogram(NumHistBins)
					stringHist[i] = sh
				}
				sh.AddValue(f.(types.StringField).Value)
			}
		}
	}

	intHist := make(map[int]*IntHistogram)
	for i := 0; i < td.NumFields(); i++ {
		ft, _ := td.FieldType(i)
		if ft == types.IntType && haveRange[i] {
			intHist[i] = NewIntHistogram(NumHistBins, mins[i], maxs[i])
		}
	}

	if err := scan.Rewind(); err != nil {
		scan.Close()
		return nil, err
	}
	for {
		ok, err := scan.HasNext()
		if err != nil {
			scan.Close()
			return nil, err
		}
		if !ok {
			break
		}
		t, err := scan.Next()
		if err != nil {
			scan.Close()
			return nil, err
		}
		for i, h := range intHist {
			f, err := t.Field(i)
			if err != nil {
				scan.Close()
				return nil, err
			}
			h.AddValue(f.(types.IntField).Value)
		}
	}
	scan.Close()

	if err := pool.TransactionComplete(tid, true); err != nil {
		return nil, err
	}

	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}

	return &TableStats{
		tableID:       tableID,
		ioCostPerPage: ioCostPerPage,
		totalTuples:   total,
		numPages:      numPages,
		intHist:       intHist,
		stringHist:    stringHist,
		td:            td,
	}, nil
}

// EstimateScanCost models a full page-at-a-time sequential scan with no
// seeks: each page costs ioCostPerPage to read, doubled as a stand-in
// for write-back/log pressure from the scan's enclosing transaction.
func (ts *TableStats) EstimateScanCost() float64 {
	return float64(ts.numPages) * float64(ts.ioCostPerPage) * 2
}

// EstimateTableCardinality scales the table's row count by an upstream
// predicate's estimated selectivity.
func (ts *TableStats) EstimateTableCardinality(selectivityFactor float64) int {
	return int(float64(ts.totalTuples) * selectivityFactor)
}

func (ts *TableStats) TotalTuples() int { return ts.totalTuples }

// AvgSelectivity is the expected selectivity of field against an unknown
// constant. op is not consulted: the field's histogram gives one value
// for every operator.
func (ts *TableStats) AvgSelectivity(field int, op types.Op) float64 {
	if h, ok := ts.intHist[field]; ok {
		return h.AvgSelectivity()
	}
	if h, ok := ts.stringHist[field]; ok {
		return h.AvgSelectivity()
	}
	return -1.0
}

// EstimateSelectivity estimates the fraction of rows satisfying
// `field op constant`.
func (ts *TableStats) EstimateSelectivity(field int, op types.Op, constant types.Field) (float64, error) {
	if h, ok := ts.intHist[field]; ok {
		iv, ok := constant.(types.IntField)
		if !ok {
			return 0, fmt.Errorf("%w: field %d is INT, constant is not", types.ErrSchemaMismatch, field)
		}
		return h.EstimateSelectivity(op, iv.Value), nil
	}
	if h, ok := ts.stringHist[field]; ok {
		sv, ok := constant.(types.StringField)
		if !ok {
			return 0, fmt.Errorf("%w: field %d is STRING, constant is not", types.ErrSchemaMismatch, field)
		}
		return h.EstimateSelectivity(op, sv.Value), nil
	}
	return math.NaN(), fmt.Errorf("%w: no histogram for field %d", types.ErrNoSuchElement, field)
}
