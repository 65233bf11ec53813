package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// agentStep is one pipeline step: it reads the state and returns the
// messages to append. Steps never mutate the state themselves.
type agentStep interface {
	Name() string
	Run(ctx context.Context, state *State) ([]*schema.Message, error)
}

// llmStep runs a chat model under a fixed system prompt, optionally with
// tools bound so the model can request them.
type llmStep struct {
	name      string
	prompt    string
	chatModel model.ChatModel
	logger    func(string)
}

func newLLMStep(ctx context.Context, name, prompt string, factory ModelFactory, tools []tool.BaseTool, logger func(string)) (*llmStep, error) {
	chatModel, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", name, err)
	}

	if len(tools) > 0 {
		var infos []*schema.ToolInfo
		for _, t := range tools {
			info, err := t.Info(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to describe tool for %s: %w", name, err)
			}
			infos = append(infos, info)
		}
		if err := chatModel.BindTools(infos); err != nil {
			return nil, fmt.Errorf("failed to bind tools for %s: %w", name, err)
		}
	}

	return &llmStep{name: name, prompt: prompt, chatModel: chatModel, logger: logger}, nil
}

func (s *llmStep) Name() string { return s.name }

func (s *llmStep) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

func (s *llmStep) Run(ctx context.Context, state *State) ([]*schema.Message, error) {
	input := make([]*schema.Message, 0, len(state.Messages)+1)
	input = append(input, schema.SystemMessage(s.prompt))
	input = append(input, state.Messages...)

	msg, err := s.chatModel.Generate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%s generation failed: %w", s.name, err)
	}
	if len(msg.ToolCalls) > 0 {
		s.log(fmt.Sprintf("[AGENT] %s requested %d tool call(s)", s.name, len(msg.ToolCalls)))
	}
	return []*schema.Message{msg}, nil
}

// visualizerStep wraps the visualizer model with the auto-plot fallback:
// when the model does not call plot_table itself and table text is present,
// the table is plotted directly and the result recorded as a tool message.
type visualizerStep struct {
	llmStep
	plot func(tableText, chartType string) (string, error)
}

func newVisualizerStep(ctx context.Context, factory ModelFactory, plotTool *PlotTableTool, logger func(string)) (*visualizerStep, error) {
	base, err := newLLMStep(ctx, "visualizer", visualizerPrompt, factory, []tool.BaseTool{plotTool}, logger)
	if err != nil {
		return nil, err
	}
	return &visualizerStep{llmStep: *base, plot: plotTool.Plot}, nil
}

func (s *visualizerStep) Run(ctx context.Context, state *State) ([]*schema.Message, error) {
	out, err := s.llmStep.Run(ctx, state)
	if err != nil {
		return nil, err
	}

	ai := out[len(out)-1]
	if len(ai.ToolCalls) > 0 || strings.TrimSpace(state.TableText) == "" {
		return out, nil
	}

	chartType := inferChartType(messageText(ai))
	s.log(fmt.Sprintf("[AGENT] visualizer auto-plot as %s chart", chartType))

	path, err := s.plot(state.TableText, chartType)
	if err != nil {
		out = append(out, schema.AssistantMessage(
			fmt.Sprintf("Failed to auto-plot the table: %v", err), nil))
		return out, nil
	}

	out = append(out,
		&schema.Message{
			Role:       schema.Tool,
			Content:    path,
			ToolCallID: uuid.NewString(),
			ToolName:   plotTableToolName,
		},
		schema.AssistantMessage(
			fmt.Sprintf("Automatically plotted table as a %s chart. File saved at: %s", chartType, path), nil))
	return out, nil
}

// inferChartType picks a chart type from the assistant text. The literal
// substring rules (including "bar" only counting when "line" is absent) are
// kept compatible with earlier releases.
func inferChartType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "bar chart"),
		strings.Contains(lower, "bar") && !strings.Contains(lower, "line"):
		return "bar"
	case strings.Contains(lower, "scatter"):
		return "scatter"
	default:
		return "line"
	}
}
