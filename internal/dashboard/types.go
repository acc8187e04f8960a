// Package dashboard turns a natural-language chart request into a
// renderer-agnostic chart specification through four pure stages:
// chart-intent extraction, data retrieval, data shaping and chart-spec
// assembly. Each stage's output is the next stage's only input.
package dashboard

import "orumaiv/internal/nlu"

// Filter operators accepted on a chart request.
const (
	OpEqual          = "="
	OpGreater        = ">"
	OpLess           = "<"
	OpGreaterOrEqual = ">="
	OpLessOrEqual    = "<="
	OpContains       = "contains"
)

// Filter narrows the records a data source returns.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// TimeRange restricts a request to a named period.
type TimeRange struct {
	Period string `json:"period,omitempty"`
}

// NluResult is the structured form of a chart request. It drives both data
// retrieval and chart shaping.
type NluResult struct {
	ChartType      string       `json:"chartType"`
	Metrics        []string     `json:"metrics"`
	Dimensions     []string     `json:"dimensions"`
	Filters        []Filter     `json:"filters"`
	TimeRange      *TimeRange   `json:"timeRange,omitempty"`
	Entities       []nlu.Entity `json:"entities"`
	RequestedTitle string       `json:"requestedTitle,omitempty"`
	Language       string       `json:"language"`
}

// Record is one data point flowing through the pipeline. Category carries
// the display label, Priority and Time carry filterable attributes.
type Record struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Priority string  `json:"priority,omitempty"`
	Time     string  `json:"time,omitempty"`
}

// Metadata identifies where a record set came from.
type Metadata struct {
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// RawData is the untyped-source-free record set a data source returns.
type RawData struct {
	Records  []Record `json:"records"`
	Metadata Metadata `json:"metadata"`
}

// ProcessedData is the canonical categorical series handed to chart-spec
// assembly. Data keeps index-aligned category/value pairs.
type ProcessedData struct {
	ChartType  string   `json:"chartType"`
	Title      string   `json:"title"`
	Data       []Record `json:"data"`
	XAxisLabel string   `json:"xAxisLabel,omitempty"`
	YAxisLabel string   `json:"yAxisLabel,omitempty"`
	Metadata   Metadata `json:"metadata"`
}

// Dataset is one labeled series inside a ChartConfig. BackgroundColor, when
// set, has one entry per data point.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
}

// ChartData pairs labels with their datasets. Labels and every dataset's
// Data are index-aligned and equal in length.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// TitleOption configures the chart title display.
type TitleOption struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// LegendOption configures the chart legend.
type LegendOption struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

// TooltipOption configures hover tooltips.
type TooltipOption struct {
	Enabled bool `json:"enabled"`
}

// PluginOptions groups the display plugins.
type PluginOptions struct {
	Title   TitleOption   `json:"title"`
	Legend  LegendOption  `json:"legend"`
	Tooltip TooltipOption `json:"tooltip"`
}

// AxisTitle labels one axis.
type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// AxisScale configures one axis.
type AxisScale struct {
	Title       AxisTitle `json:"title"`
	BeginAtZero bool      `json:"beginAtZero,omitempty"`
}

// ScaleOptions holds the cartesian axes. Omitted for pie and doughnut
// charts, which have none.
type ScaleOptions struct {
	X AxisScale `json:"x"`
	Y AxisScale `json:"y"`
}

// ChartOptions is the renderer-facing display configuration.
type ChartOptions struct {
	Responsive          bool          `json:"responsive"`
	MaintainAspectRatio bool          `json:"maintainAspectRatio"`
	Plugins             PluginOptions `json:"plugins"`
	Scales              *ScaleOptions `json:"scales,omitempty"`
}

// ChartConfig is the renderer-agnostic chart specification this pipeline
// produces. The charting layer consumes it as-is.
type ChartConfig struct {
	ChartType string       `json:"chartType"`
	Data      ChartData    `json:"data"`
	Options   ChartOptions `json:"options"`
}

// Result is the outcome of one dashboard request. On failure ChartConfig is
// still a valid, empty spec so renderers never receive a malformed one.
type Result struct {
	NluResult   NluResult   `json:"nluResult"`
	ChartConfig ChartConfig `json:"chartConfig"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Source      string      `json:"source,omitempty"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
}
