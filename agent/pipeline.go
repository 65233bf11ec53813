// Package agent orchestrates a planner/researcher/summarizer/visualizer
// pipeline over a shared conversation state, with web search and table
// plotting exposed as model-invokable tools.
package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"taskpilot/chart"
	"taskpilot/config"
)

// nodeID identifies a router state.
type nodeID string

const (
	nodePlan      nodeID = "planner"
	nodeResearch  nodeID = "researcher"
	nodeSummarize nodeID = "summarizer"
	nodeVisualize nodeID = "visualizer"
	nodeTerminal  nodeID = "end"
)

// transition describes where the router goes after a step runs. Tool
// requests (when allowed) always loop back to the same step once the tool
// results are appended; stopMode terminates the run when it matches the
// state's mode; next applies otherwise.
type transition struct {
	allowTools bool
	stopMode   Mode
	next       nodeID
}

// The single transition table; router conditions live here rather than in
// the steps so the mode boundaries cannot drift apart.
var transitions = map[nodeID]transition{
	nodePlan:      {next: nodeResearch},
	nodeResearch:  {allowTools: true, stopMode: ModeResearch, next: nodeSummarize},
	nodeSummarize: {allowTools: true, stopMode: ModeSummary, next: nodeVisualize},
	nodeVisualize: {allowTools: true, next: nodeTerminal},
}

// ToolExecutionError wraps a failure from a tool invoked through the
// tool-call protocol. It is surfaced as tool-result content, not as a run
// failure.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Pipeline drives the four steps over one conversation state.
type Pipeline struct {
	steps    map[nodeID]agentStep
	tools    map[string]tool.InvokableTool
	logger   func(string)
	maxSteps int
}

// NewPipeline wires the steps and tools from the configuration. A nil
// factory falls back to NewModelFactory(cfg); tests inject mock factories.
func NewPipeline(ctx context.Context, cfg config.Config, factory ModelFactory, logger func(string)) (*Pipeline, error) {
	if factory == nil {
		factory = NewModelFactory(cfg)
	}

	searchTool := NewWebSearchTool(cfg, logger)
	renderer := chart.NewRenderer(cfg.Plot, logger)
	plotTool := NewPlotTableTool(renderer, logger)

	planner, err := newLLMStep(ctx, "planner", plannerPrompt, factory, nil, logger)
	if err != nil {
		return nil, err
	}
	researcher, err := newLLMStep(ctx, "researcher", researcherPrompt, factory, []tool.BaseTool{searchTool}, logger)
	if err != nil {
		return nil, err
	}
	summarizer, err := newLLMStep(ctx, "summarizer", summarizerPrompt, factory, nil, logger)
	if err != nil {
		return nil, err
	}
	visualizer, err := newVisualizerStep(ctx, factory, plotTool, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		steps: map[nodeID]agentStep{
			nodePlan:      planner,
			nodeResearch:  researcher,
			nodeSummarize: summarizer,
			nodeVisualize: visualizer,
		},
		tools: map[string]tool.InvokableTool{
			webSearchToolName: searchTool,
			plotTableToolName: plotTool,
		},
		logger:   logger,
		maxSteps: cfg.MaxSteps,
	}, nil
}

func (p *Pipeline) log(msg string) {
	if p.logger != nil {
		p.logger(msg)
	}
}

// Run executes the pipeline until the terminal state and returns the
// accumulated conversation state. The state starts at the planner; each
// step's tool requests are executed and looped back to it; the mode decides
// whether the run stops after the researcher or summarizer.
func (p *Pipeline) Run(ctx context.Context, state *State) (*State, error) {
	current := nodePlan
	for steps := 0; ; steps++ {
		if p.maxSteps > 0 && steps >= p.maxSteps {
			return state, fmt.Errorf("pipeline exceeded %d steps without terminating", p.maxSteps)
		}

		step, ok := p.steps[current]
		if !ok {
			return state, fmt.Errorf("no step registered for %s", current)
		}

		p.log(fmt.Sprintf("[PIPELINE] running %s", step.Name()))
		msgs, err := step.Run(ctx, state)
		if err != nil {
			return state, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		state.Append(msgs...)

		tr := transitions[current]
		if last := state.Last(); tr.allowTools && last != nil && len(last.ToolCalls) > 0 {
			state.Append(p.executeTools(ctx, last)...)
			continue // the requesting step runs again
		}
		if tr.stopMode != "" && state.Mode == tr.stopMode {
			break
		}
		if tr.next == nodeTerminal {
			break
		}
		current = tr.next
	}
	return state, nil
}

// executeTools dispatches each requested tool call and returns the
// tool-result messages. Failures become error text in the result so the
// requesting step can react; they never abort the run.
func (p *Pipeline) executeTools(ctx context.Context, msg *schema.Message) []*schema.Message {
	results := make([]*schema.Message, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		name := call.Function.Name
		var content string

		t, ok := p.tools[name]
		if !ok {
			content = fmt.Sprintf("Error: unknown tool %q", name)
			p.log(fmt.Sprintf("[PIPELINE] %s", content))
		} else {
			p.log(fmt.Sprintf("[PIPELINE] executing tool %s", name))
			out, err := t.InvokableRun(ctx, call.Function.Arguments)
			if err != nil {
				terr := &ToolExecutionError{Tool: name, Err: err}
				content = "Error: " + terr.Error()
				p.log(fmt.Sprintf("[PIPELINE] %s", terr))
			} else {
				content = out
			}
		}

		results = append(results, &schema.Message{
			Role:       schema.Tool,
			Content:    content,
			ToolCallID: call.ID,
			ToolName:   name,
		})
	}
	return results
}
