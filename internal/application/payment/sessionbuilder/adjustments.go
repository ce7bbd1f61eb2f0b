package sessionbuilder

import (
	"sort"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
)

// AdjustmentTransformer normalizes adjustments before they are summed. It
// may combine, reorder and round them.
type AdjustmentTransformer interface {
	ProcessAdjustments(adjustments []order.Adjustment) ([]order.Adjustment, error)
}

// AdjustmentAggregator sums adjustments through the transformer. Totals are
// only ever computed from the normalized list.
type AdjustmentAggregator struct {
	transformer AdjustmentTransformer
}

func NewAdjustmentAggregator(transformer AdjustmentTransformer) *AdjustmentAggregator {
	return &AdjustmentAggregator{transformer: transformer}
}

// Total returns the sum of matching adjustments, or nil when none match.
// An empty types list matches every type.
func (a *AdjustmentAggregator) Total(adjustments []order.Adjustment, types []order.AdjustmentType, skipIncluded bool) (*vo.Money, error) {
	var matching []order.Adjustment
	for _, adj := range order.FilterAdjustments(adjustments, types...) {
		if skipIncluded && adj.Included {
			continue
		}
		matching = append(matching, adj)
	}
	if len(matching) == 0 {
		return nil, nil
	}

	processed, err := a.transformer.ProcessAdjustments(matching)
	if err != nil {
		return nil, err
	}
	if len(processed) == 0 {
		return nil, nil
	}

	total := processed[0].Amount
	for _, adj := range processed[1:] {
		if total, err = total.Add(adj.Amount); err != nil {
			return nil, err
		}
	}
	return &total, nil
}

var adjustmentTypeWeight = map[order.AdjustmentType]int{
	order.AdjustmentTypeShipping:  0,
	order.AdjustmentTypePromotion: 1,
	order.AdjustmentTypeFee:       2,
	order.AdjustmentTypeTax:       3,
}

// DefaultAdjustmentTransformer combines adjustments that share type, source,
// percentage and included flag, sorts them by type and rounds each amount
// to the currency precision.
type DefaultAdjustmentTransformer struct {
	converter *MoneyConverter
}

func NewDefaultAdjustmentTransformer(converter *MoneyConverter) *DefaultAdjustmentTransformer {
	return &DefaultAdjustmentTransformer{converter: converter}
}

func (t *DefaultAdjustmentTransformer) ProcessAdjustments(adjustments []order.Adjustment) ([]order.Adjustment, error) {
	combined, err := combineAdjustments(adjustments)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return typeWeight(combined[i].Type) < typeWeight(combined[j].Type)
	})

	for i := range combined {
		rounded, err := t.converter.Round(combined[i].Amount)
		if err != nil {
			return nil, err
		}
		combined[i].Amount = rounded
	}
	return combined, nil
}

type combineKey struct {
	adjType    order.AdjustmentType
	sourceID   string
	percentage string
	included   bool
}

// combineAdjustments merges adjustments with the same key. Adjustments
// without a source id are kept as is.
func combineAdjustments(adjustments []order.Adjustment) ([]order.Adjustment, error) {
	out := make([]order.Adjustment, 0, len(adjustments))
	index := make(map[combineKey]int)

	for _, adj := range adjustments {
		if adj.SourceID == "" {
			out = append(out, adj)
			continue
		}
		key := combineKey{adjType: adj.Type, sourceID: adj.SourceID, included: adj.Included}
		if adj.Percentage != nil {
			key.percentage = adj.Percentage.String()
		}
		if i, ok := index[key]; ok {
			sum, err := out[i].Amount.Add(adj.Amount)
			if err != nil {
				return nil, err
			}
			out[i].Amount = sum
			continue
		}
		index[key] = len(out)
		out = append(out, adj)
	}
	return out, nil
}

func typeWeight(t order.AdjustmentType) int {
	if w, ok := adjustmentTypeWeight[t]; ok {
		return w
	}
	return len(adjustmentTypeWeight)
}
