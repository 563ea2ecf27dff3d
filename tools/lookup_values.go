package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	internaljson "github.com/richinex/citychat/internal/json"
	"github.com/richinex/citychat/storage"
)

const (
	defaultLookupValuesDescription = "Get the latest recorded values of demographic metrics " +
		"for a geographic key returned by lookup_city. " +
		"Metrics include Population, MedianIncome, MedianAge and similar ACS series."

	lookupValuesGeokeyDescription = "The geokey of the place, as returned by lookup_city"
	lookupValuesTypesDescription  = "The metric names to fetch, e.g. [\"Population\", \"MedianIncome\"]"
)

// lookupValuesArgs accepts both the documented plural "types" and the
// singular "type" some models emit.
type lookupValuesArgs struct {
	Geokey string   `json:"geokey"`
	Types  []string `json:"types"`
	Type   string   `json:"type"`
}

func (a lookupValuesArgs) metricTypes() []string {
	if len(a.Types) > 0 {
		return a.Types
	}
	if strings.TrimSpace(a.Type) != "" {
		return []string{a.Type}
	}
	return nil
}

// LookupValuesTool fetches the latest metric values for a geographic key.
type LookupValuesTool struct {
	BaseTool
	store       storage.GeoQuerier
	description string
	paramDescs  map[string]string
}

// NewLookupValuesTool creates the metric lookup tool over store.
func NewLookupValuesTool(store storage.GeoQuerier) *LookupValuesTool {
	return &LookupValuesTool{
		store:       store,
		description: defaultLookupValuesDescription,
	}
}

// WithDescription overrides the description advertised to the model.
func (t *LookupValuesTool) WithDescription(desc string) *LookupValuesTool {
	if desc != "" {
		t.description = desc
	}
	return t
}

// WithParameterDescriptions overrides per-parameter wording.
func (t *LookupValuesTool) WithParameterDescriptions(descs map[string]string) *LookupValuesTool {
	t.paramDescs = descs
	return t
}

// Metadata returns the tool's schema.
func (t *LookupValuesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "lookup_values",
		Description: t.description,
		Parameters: []ToolParameter{
			{Name: "geokey", ParamType: "string", Description: paramDescription(t.paramDescs, "geokey", lookupValuesGeokeyDescription), Required: true},
			{Name: "types", ParamType: "array", ItemType: "string", Description: paramDescription(t.paramDescs, "types", lookupValuesTypesDescription), Required: true},
		},
	}
}

// Validate checks that a geokey and at least one metric type are present.
func (t *LookupValuesTool) Validate(args json.RawMessage) error {
	var a lookupValuesArgs
	if err := internaljson.DecodeArguments(args, &a); err != nil {
		return err
	}
	if strings.TrimSpace(a.Geokey) == "" {
		return fmt.Errorf("geokey is required")
	}
	if len(a.metricTypes()) == 0 {
		return fmt.Errorf("at least one metric type is required")
	}
	return nil
}

// Execute fetches the metric values. An empty match set is a successful
// empty-list result.
func (t *LookupValuesTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	var a lookupValuesArgs
	if err := internaljson.DecodeArguments(args, &a); err != nil {
		return FailureResult(err)
	}

	records, err := t.store.LookupValues(ctx, strings.TrimSpace(a.Geokey), a.metricTypes())
	if err != nil {
		return FailureResultf("value lookup failed: %v", err)
	}
	if len(records) == 0 {
		return SuccessResult([]storage.ValueRecord{})
	}
	return SuccessResult(records)
}
