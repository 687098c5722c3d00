package batch

import (
	"fmt"

	"Propmatic/internal/calc/propeller"
)

// MaxItems bounds one batch request.
const MaxItems = 200

type PropellerBatchInput struct {
	Items []propeller.Request `json:"items"`
}

type PropellerBatchResult struct {
	Results []propeller.Spec `json:"results"`
}

// ItemError names the batch entry that failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

func CalculatePropellers(in PropellerBatchInput, calc func(propeller.Request) (propeller.Spec, error)) (PropellerBatchResult, error) {
	if len(in.Items) == 0 {
		return PropellerBatchResult{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return PropellerBatchResult{}, fmt.Errorf("too many items: %d, max %d", len(in.Items), MaxItems)
	}
	out := PropellerBatchResult{Results: make([]propeller.Spec, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := calc(item)
		if err != nil {
			return PropellerBatchResult{}, &ItemError{Index: i, Err: err}
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
