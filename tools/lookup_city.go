package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	internaljson "github.com/richinex/citychat/internal/json"
	"github.com/richinex/citychat/storage"
)

// Default tool descriptions; deployments override them from the prompt
// config so the model sees wording tuned for the active provider.
const (
	defaultLookupCityDescription = "Get the geographic identifiers for a US city. " +
		"Returns the city, county and state geokeys along with coordinates. " +
		"Call this first to resolve a city name to a geokey."

	lookupCityCityDescription  = "The city name, e.g. San Francisco"
	lookupCityStateDescription = "The two-letter state code, e.g. CA"
)

type lookupCityArgs struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// LookupCityTool resolves a city/state pair to its geographic keys.
type LookupCityTool struct {
	BaseTool
	store       storage.GeoQuerier
	description string
	paramDescs  map[string]string
}

// NewLookupCityTool creates the city lookup tool over store.
func NewLookupCityTool(store storage.GeoQuerier) *LookupCityTool {
	return &LookupCityTool{
		store:       store,
		description: defaultLookupCityDescription,
	}
}

// WithDescription overrides the description advertised to the model.
func (t *LookupCityTool) WithDescription(desc string) *LookupCityTool {
	if desc != "" {
		t.description = desc
	}
	return t
}

// WithParameterDescriptions overrides per-parameter wording.
func (t *LookupCityTool) WithParameterDescriptions(descs map[string]string) *LookupCityTool {
	t.paramDescs = descs
	return t
}

// Metadata returns the tool's schema.
func (t *LookupCityTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "lookup_city",
		Description: t.description,
		Parameters: []ToolParameter{
			{Name: "city", ParamType: "string", Description: paramDescription(t.paramDescs, "city", lookupCityCityDescription), Required: true},
			{Name: "state", ParamType: "string", Description: paramDescription(t.paramDescs, "state", lookupCityStateDescription), Required: true},
		},
	}
}

// Validate checks that both city and state are present.
func (t *LookupCityTool) Validate(args json.RawMessage) error {
	var a lookupCityArgs
	if err := internaljson.DecodeArguments(args, &a); err != nil {
		return err
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("state is required")
	}
	return nil
}

// Execute looks the city up. A miss is a successful empty result, not an
// error; the model decides how to tell the user.
func (t *LookupCityTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	var a lookupCityArgs
	if err := internaljson.DecodeArguments(args, &a); err != nil {
		return FailureResult(err)
	}

	rec, err := t.store.LookupCity(ctx, strings.TrimSpace(a.City), strings.TrimSpace(a.State))
	if err != nil {
		return FailureResultf("city lookup failed: %v", err)
	}
	if rec == nil {
		return EmptyResult()
	}
	return SuccessResult(rec)
}
