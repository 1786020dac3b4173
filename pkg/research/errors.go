package research

import (
	"fmt"
	"strings"
)

// TrendAnalysisError reports that a research trend analysis did not complete
type TrendAnalysisError struct {
	Category string
	Err      error
}

func (e *TrendAnalysisError) Error() string {
	return fmt.Sprintf("trend analysis failed for category %q: %v", e.Category, e.Err)
}

func (e *TrendAnalysisError) Unwrap() error {
	return e.Err
}

// NetworkAnalysisError reports that a network analysis did not complete
type NetworkAnalysisError struct {
	Categories []string
	Err        error
}

func (e *NetworkAnalysisError) Error() string {
	return fmt.Sprintf("network analysis failed for categories [%s]: %v", strings.Join(e.Categories, ", "), e.Err)
}

func (e *NetworkAnalysisError) Unwrap() error {
	return e.Err
}
