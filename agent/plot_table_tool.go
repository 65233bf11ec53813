package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"taskpilot/chart"
	"taskpilot/table"
)

// PlotTableToolName is the wire name of the plotting tool, exposed so
// callers can pick its result messages out of a conversation.
const PlotTableToolName = "plot_table"

const plotTableToolName = PlotTableToolName

// PlotTableTool parses raw table text and renders it as a chart, returning
// the path of the written PNG file.
type PlotTableTool struct {
	renderer *chart.Renderer
	logger   func(string)
}

// plotTableInput is the tool-call argument payload.
type plotTableInput struct {
	TableText string `json:"table_text"`
	ChartType string `json:"chart_type,omitempty"`
}

// NewPlotTableTool creates the plotting tool.
func NewPlotTableTool(renderer *chart.Renderer, logger func(string)) *PlotTableTool {
	return &PlotTableTool{renderer: renderer, logger: logger}
}

// Info returns tool information for the LLM.
func (t *PlotTableTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: plotTableToolName,
		Desc: "Parse table text (CSV, markdown table, or whitespace-separated columns with a header row), " +
			"plot it, save the chart as a PNG file, and return the file path.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"table_text": {
				Type:     schema.String,
				Desc:     "Raw table data as CSV, markdown, or whitespace-separated text",
				Required: true,
			},
			"chart_type": {
				Type:     schema.String,
				Desc:     `Chart type: "line", "bar", or "scatter" (default "line")`,
				Required: false,
			},
		}),
	}, nil
}

// InvokableRun parses the arguments and plots the table.
func (t *PlotTableTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input plotTableInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}
	return t.Plot(input.TableText, input.ChartType)
}

// Plot parses tableText and renders it as chartType. It is also the direct
// path used by the visualizer's auto-plot fallback.
func (t *PlotTableTool) Plot(tableText, chartType string) (string, error) {
	if chartType == "" {
		chartType = chart.TypeLine
	}
	tbl, err := table.Parse(tableText)
	if err != nil {
		return "", err
	}
	path, err := t.renderer.Render(tbl, chartType)
	if err != nil {
		return "", err
	}
	if t.logger != nil {
		t.logger(fmt.Sprintf("[PLOT-TABLE] Saved %s chart to %s", chartType, path))
	}
	return path, nil
}
