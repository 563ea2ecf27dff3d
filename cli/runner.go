// Package cli wires settings into a running agent and drives the
// command-line entry points.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/richinex/citychat/agent"
	"github.com/richinex/citychat/config"
	"github.com/richinex/citychat/llm"
	"github.com/richinex/citychat/server"
	"github.com/richinex/citychat/storage"
	"github.com/richinex/citychat/tools"
)

// Runner builds and runs the application from loaded settings.
type Runner struct {
	settings config.Settings
	logger   *zap.Logger
}

// NewRunner creates a runner.
func NewRunner(settings config.Settings, logger *zap.Logger) *Runner {
	return &Runner{settings: settings, logger: logger}
}

// BuildRegistry registers the lookup tools over store, with descriptions
// taken from the prompt document. store may be nil when only tool metadata
// is needed.
func BuildRegistry(prompts *config.PromptDoc, store storage.GeoQuerier) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	cityTool := tools.NewLookupCityTool(store).
		WithDescription(prompts.FunctionDescription("lookup_city")).
		WithParameterDescriptions(prompts.FunctionParameters("lookup_city"))
	if err := registry.Register(cityTool); err != nil {
		return nil, err
	}

	valuesTool := tools.NewLookupValuesTool(store).
		WithDescription(prompts.FunctionDescription("lookup_values")).
		WithParameterDescriptions(prompts.FunctionParameters("lookup_values"))
	if err := registry.Register(valuesTool); err != nil {
		return nil, err
	}

	return registry, nil
}

// buildAgent assembles provider, database, tools and agent. The returned
// cleanup closes the database pool.
func (r *Runner) buildAgent(ctx context.Context) (*agent.Agent, func(), error) {
	prompts, err := config.LoadPrompts(r.settings.PromptsPath)
	if err != nil {
		return nil, nil, err
	}

	providerType, err := llm.ParseProviderType(r.settings.Provider)
	if err != nil {
		return nil, nil, err
	}
	builder := llm.NewProviderBuilder(providerType)
	if r.settings.Model != "" {
		builder = builder.Model(r.settings.Model)
	}
	provider, err := builder.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.OpenPostgres(ctx, r.settings.Database)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewGeoStore(db).WithLogger(r.logger)

	registry, err := BuildRegistry(prompts, store)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	a := agent.New(provider, registry, agent.Config{
		Name:         "citychat",
		SystemPrompt: prompts.SystemMessage,
		MaxTurns:     r.settings.MaxTurns,
	}).WithLogger(r.logger).WithToolTimeout(r.settings.ToolTimeout)

	r.logger.Info("agent ready",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()))

	return a, func() { db.Close() }, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context) error {
	a, cleanup, err := r.buildAgent(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(a).
		WithLogger(r.logger).
		WithRequestTimeout(r.settings.RequestTimeout)

	if r.settings.ExchangeLogPath != "" {
		exchangeLog, err := storage.OpenExchangeLog(r.settings.ExchangeLogPath)
		if err != nil {
			return err
		}
		defer exchangeLog.Close()
		srv = srv.WithExchangeLog(exchangeLog)
	}

	return srv.ListenAndServe(ctx, r.settings.ServerAddr)
}

// AskOnce answers a single question and prints the result.
func (r *Runner) AskOnce(ctx context.Context, question string) error {
	a, cleanup, err := r.buildAgent(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := a.Ask(ctx, question, nil)
	if err != nil {
		return err
	}

	fmt.Println(resp.Content)
	printRunSummary(resp)
	return nil
}

// Chat runs an interactive loop, carrying each answered question forward
// as conversation history for the next one.
func (r *Runner) Chat(ctx context.Context) error {
	a, cleanup, err := r.buildAgent(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("Ask about US city demographics. Type 'exit' to quit.")

	var history []agent.HistoryPair
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		resp, err := a.Ask(ctx, question, history)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Println(resp.Content)
		history = append(history, agent.HistoryPair{
			Question: question,
			Answer:   resp.Content,
		})
	}
}

// Lookup queries the geo store directly, bypassing the model. Useful for
// checking dataset connectivity.
func (r *Runner) Lookup(ctx context.Context, city, state string) error {
	db, err := storage.OpenPostgres(ctx, r.settings.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewGeoStore(db).WithLogger(r.logger)
	rec, err := store.LookupCity(ctx, city, state)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Printf("no match for %s, %s\n", city, state)
		return nil
	}

	fmt.Printf("%s, %s  geokey=%s  county=%s (%s)\n",
		rec.City, rec.State, rec.CityGeokey, rec.County, rec.CountyGeokey)
	return nil
}

// ListTools prints the tool definitions advertised to the model.
func (r *Runner) ListTools() error {
	prompts, err := config.LoadPrompts(r.settings.PromptsPath)
	if err != nil {
		return err
	}

	registry, err := BuildRegistry(prompts, nil)
	if err != nil {
		return err
	}

	for _, meta := range registry.List() {
		fmt.Println(meta.String())
		for _, p := range meta.Parameters {
			required := ""
			if p.Required {
				required = " (required)"
			}
			fmt.Printf("  %s %s%s: %s\n", p.Name, p.ParamType, required, p.Description)
		}
	}
	return nil
}

func printRunSummary(resp *agent.Response) {
	meta := resp.Metadata
	fmt.Printf("\n[%s: %d llm calls, %d tool calls, %dms",
		resp.Outcome, meta.LLMCalls, len(meta.ToolCalls), meta.ExecutionTimeMs)
	if meta.TokenUsage != nil {
		fmt.Printf(", %d tokens", meta.TokenUsage.TotalTokens)
	}
	fmt.Println("]")
}
