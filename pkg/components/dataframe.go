// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package components

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strconv"

	"github.com/wavetermdev/waveblocks/pkg/apischema"
	"github.com/wavetermdev/waveblocks/pkg/blocks"
	"github.com/wavetermdev/waveblocks/pkg/util/utilfn"
	"github.com/wavetermdev/waveblocks/pkg/utilds"
)

const BlockName_Dataframe = "dataframe"

const (
	CountMode_Dynamic = "dynamic"
	CountMode_Fixed   = "fixed"
)

const (
	Datatype_Str      = "str"
	Datatype_Number   = "number"
	Datatype_Bool     = "bool"
	Datatype_Date     = "date"
	Datatype_Markdown = "markdown"
	Datatype_Html     = "html"
)

const DefaultDataframeHeight = 500
const DefaultDataframeCols = 3
const dataframeExampleRows = 5

var dataframeApiInfo = utilds.MakeSyncCache(func() (map[string]any, error) {
	return apischema.TypeInfo(&DataframeData{})
})

// empty cell value per datatype
var datatypeEmptyValues = map[string]any{
	Datatype_Str:      "",
	Datatype_Number:   0,
	Datatype_Bool:     false,
	Datatype_Date:     "01/01/1970",
	Datatype_Markdown: "",
	Datatype_Html:     "",
}

// DataframeData is the transmitted value of a Dataframe.
type DataframeData struct {
	Headers  []string         `json:"headers"`
	Data     [][]any          `json:"data"`
	Metadata map[string][]any `json:"metadata,omitempty"`
}

// Count is a row or column count and whether the user may add more.
// Serialized as [n, mode].
type Count struct {
	N    int
	Mode string
}

func (c Count) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.N, c.Mode})
}

func DynamicCount(n int) *Count {
	return &Count{N: n, Mode: CountMode_Dynamic}
}

func FixedCount(n int) *Count {
	return &Count{N: n, Mode: CountMode_Fixed}
}

type DataframeOpts struct {
	blocks.BaseOpts
	// DataframeData, map[string]any, [][]T, or a CSV file path
	Value    blocks.Initial[any]
	Headers  []string
	RowCount *Count // default 1 dynamic
	ColCount *Count // default len(Headers) (or 3) dynamic
	// one entry applies to every column, default "str"
	Datatype        []string
	LatexDelimiters []LatexDelimiter // nil means $$...$$ in display mode
	Label           string
	Height          int // default 500
	Wrap            bool
	NoLineBreaks    bool
	ColumnWidths    []any // string ("10%") or int (pixels)
	Interactive     *bool
}

// Dataframe displays (or accepts) 2D tabular data.
type Dataframe struct {
	blocks.BlockBase
	Value           *DataframeData
	Headers         []string
	RowCount        Count
	ColCount        Count
	Datatype        []string
	LatexDelimiters []LatexDelimiter
	Label           string
	Height          int
	Wrap            bool
	LineBreaks      bool
	ColumnWidths    []string
	Interactive     *bool

	initial blocks.Initial[any]
}

func DefaultDataframeDelimiters() []LatexDelimiter {
	return []LatexDelimiter{{Left: "$$", Right: "$$", Display: true}}
}

func dataframeErrorf(format string, args ...any) error {
	return utilds.Errorf(utilds.ErrCode_Dataframe, format, args...)
}

func NewDataframe(opts DataframeOpts) (*Dataframe, error) {
	df := &Dataframe{
		Label:           opts.Label,
		Height:          opts.Height,
		Wrap:            opts.Wrap,
		LineBreaks:      !opts.NoLineBreaks,
		LatexDelimiters: opts.LatexDelimiters,
		Interactive:     opts.Interactive,
		initial:         opts.Value,
	}
	df.RowCount = Count{N: 1, Mode: CountMode_Dynamic}
	if opts.RowCount != nil {
		df.RowCount = *opts.RowCount
	}
	defaultCols := DefaultDataframeCols
	if len(opts.Headers) > 0 {
		defaultCols = len(opts.Headers)
	}
	df.ColCount = Count{N: defaultCols, Mode: CountMode_Dynamic}
	if opts.ColCount != nil {
		df.ColCount = *opts.ColCount
	}
	if df.RowCount.N < 0 {
		return nil, dataframeErrorf("row_count must be >= 0, got %d", df.RowCount.N)
	}
	if df.ColCount.N < 0 {
		return nil, dataframeErrorf("col_count must be >= 0, got %d", df.ColCount.N)
	}
	if opts.Headers != nil && len(opts.Headers) != df.ColCount.N {
		return nil, dataframeErrorf("the length of the headers list must be equal to the col_count: col_count is %d but headers has %d items", df.ColCount.N, len(opts.Headers))
	}
	df.Headers = opts.Headers
	if df.Headers == nil {
		for i := 1; i <= df.ColCount.N; i++ {
			df.Headers = append(df.Headers, strconv.Itoa(i))
		}
	}
	switch len(opts.Datatype) {
	case 0:
		df.Datatype = repeatString(Datatype_Str, df.ColCount.N)
	case 1:
		df.Datatype = repeatString(opts.Datatype[0], df.ColCount.N)
	default:
		df.Datatype = opts.Datatype
	}
	for _, dt := range df.Datatype {
		if _, ok := datatypeEmptyValues[dt]; !ok {
			return nil, dataframeErrorf("invalid datatype %q", dt)
		}
	}
	if df.LatexDelimiters == nil {
		df.LatexDelimiters = DefaultDataframeDelimiters()
	}
	if df.Height == 0 {
		df.Height = DefaultDataframeHeight
	}
	for _, w := range opts.ColumnWidths {
		switch wv := w.(type) {
		case string:
			df.ColumnWidths = append(df.ColumnWidths, wv)
		case int:
			df.ColumnWidths = append(df.ColumnWidths, fmt.Sprintf("%dpx", wv))
		default:
			return nil, dataframeErrorf("invalid column width %v (%T)", w, w)
		}
	}
	if !opts.Value.IsDeferred() {
		val, err := df.Postprocess(opts.Value.LiteralValue())
		if err != nil {
			return nil, err
		}
		df.Value = val
	}
	blocks.InitBase(df, BlockName_Dataframe, opts.BaseOpts)
	return df, nil
}

func repeatString(s string, n int) []string {
	rtn := make([]string, n)
	for i := range rtn {
		rtn[i] = s
	}
	return rtn
}

// EmptyInput is the table shown when there is no value: RowCount rows of per-datatype empty cells.
func (df *Dataframe) EmptyInput() *DataframeData {
	rtn := &DataframeData{Headers: slices.Clone(df.Headers), Data: make([][]any, 0, df.RowCount.N)}
	for i := 0; i < df.RowCount.N; i++ {
		row := make([]any, 0, len(df.Datatype))
		for _, dt := range df.Datatype {
			row = append(row, datatypeEmptyValues[dt])
		}
		rtn.Data = append(rtn.Data, row)
	}
	return rtn
}

func (df *Dataframe) LoadInitial() error {
	if !df.initial.IsDeferred() {
		return nil
	}
	raw, err := df.initial.Resolve()
	if err != nil {
		return err
	}
	val, err := df.Postprocess(raw)
	if err != nil {
		return err
	}
	df.Value = val
	return nil
}

// Preprocess converts a transmitted DataframeData (struct or decoded JSON map) into rows.
func (df *Dataframe) Preprocess(x any) ([][]any, error) {
	var data DataframeData
	switch xv := x.(type) {
	case DataframeData:
		data = xv
	case *DataframeData:
		data = *xv
	default:
		if err := utilfn.DoMapStructure(&data, x); err != nil {
			return nil, dataframeErrorf("cannot preprocess %T: %v", x, err)
		}
	}
	return data.Data, nil
}

// Postprocess converts an application value into DataframeData.
// Accepts nil, DataframeData, a map with "headers"/"data", a CSV path, or a slice of rows.
func (df *Dataframe) Postprocess(y any) (*DataframeData, error) {
	switch yv := y.(type) {
	case nil:
		return df.EmptyInput(), nil
	case DataframeData:
		return &yv, nil
	case *DataframeData:
		if yv == nil {
			return df.EmptyInput(), nil
		}
		return yv, nil
	case map[string]any:
		var data DataframeData
		if err := utilfn.DoMapStructure(&data, yv); err != nil {
			return nil, dataframeErrorf("cannot process map as a Dataframe: %v", err)
		}
		return &data, nil
	case string:
		return readCsvFile(yv)
	}
	rows, ok := toRows(y)
	if !ok {
		return nil, dataframeErrorf("cannot process value of type %T as a Dataframe", y)
	}
	if len(rows) == 0 {
		rows = [][]any{{}}
	}
	return &DataframeData{Headers: df.fitHeaders(len(rows[0])), Data: rows}, nil
}

// fitHeaders pads (with "n+1", "n+2", ...) or truncates the headers to width.
func (df *Dataframe) fitHeaders(width int) []string {
	if len(df.Headers) >= width {
		return slices.Clone(df.Headers[:width])
	}
	rtn := append([]string{}, df.Headers...)
	for i := len(df.Headers) + 1; i <= width; i++ {
		rtn = append(rtn, strconv.Itoa(i))
	}
	return rtn
}

// toRows converts any slice of slices (or arrays) into [][]any.
func toRows(y any) ([][]any, bool) {
	if rows, ok := y.([][]any); ok {
		return rows, true
	}
	rv := reflect.ValueOf(y)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	rtn := make([][]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rowVal := rv.Index(i)
		if rowVal.Kind() == reflect.Interface {
			rowVal = rowVal.Elem()
		}
		if rowVal.Kind() != reflect.Slice && rowVal.Kind() != reflect.Array {
			return nil, false
		}
		row := make([]any, 0, rowVal.Len())
		for j := 0; j < rowVal.Len(); j++ {
			row = append(row, rowVal.Index(j).Interface())
		}
		rtn = append(rtn, row)
	}
	return rtn, true
}

func parseCsvCell(cell string) any {
	if iv, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return iv
	}
	if fv, err := strconv.ParseFloat(cell, 64); err == nil {
		return fv
	}
	return cell
}

// readCsvFile reads a CSV file whose first record is the header row.
func readCsvFile(path string) (*DataframeData, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, dataframeErrorf("cannot open csv %q: %v", path, err)
	}
	defer fd.Close()
	records, err := csv.NewReader(fd).ReadAll()
	if err != nil {
		return nil, dataframeErrorf("cannot read csv %q: %v", path, err)
	}
	rtn := &DataframeData{Headers: []string{}, Data: [][]any{}}
	if len(records) == 0 {
		return rtn, nil
	}
	rtn.Headers = records[0]
	for _, record := range records[1:] {
		row := make([]any, 0, len(record))
		for _, cell := range record {
			row = append(row, parseCsvCell(cell))
		}
		rtn.Data = append(rtn.Data, row)
	}
	return rtn, nil
}

// AsExample returns the first rows of a table value, "" for nil, anything else unchanged.
func (df *Dataframe) AsExample(input any) any {
	switch iv := input.(type) {
	case nil:
		return ""
	case DataframeData:
		return headRows(iv.Data)
	case *DataframeData:
		if iv == nil {
			return ""
		}
		return headRows(iv.Data)
	}
	return input
}

func headRows(rows [][]any) [][]any {
	if len(rows) > dataframeExampleRows {
		return rows[:dataframeExampleRows]
	}
	return rows
}

func (df *Dataframe) ExampleInputs() any {
	return map[string]any{
		"headers": []string{"a", "b"},
		"data":    [][]any{{"foo", "bar"}},
	}
}

func (df *Dataframe) ApiInfo() map[string]any {
	return maps.Clone(dataframeApiInfo.MustGet())
}

func (df *Dataframe) Events() []string {
	return []string{Event_Change, "input", "select"}
}

func (df *Dataframe) GetConfig() map[string]any {
	rtn := df.BaseConfig()
	var value any
	if df.Value != nil {
		value = df.Value
	}
	var label any
	if df.Label != "" {
		label = df.Label
	}
	var interactive any
	if df.Interactive != nil {
		interactive = *df.Interactive
	}
	rtn["value"] = value
	rtn["headers"] = df.Headers
	rtn["row_count"] = df.RowCount
	rtn["col_count"] = df.ColCount
	rtn["datatype"] = df.Datatype
	rtn["latex_delimiters"] = df.LatexDelimiters
	rtn["label"] = label
	rtn["height"] = df.Height
	rtn["wrap"] = df.Wrap
	rtn["line_breaks"] = df.LineBreaks
	rtn["column_widths"] = df.ColumnWidths
	rtn["interactive"] = interactive
	rtn["events"] = df.Events()
	return rtn
}

type DataframeUpdateOpts struct {
	Visible blocks.Opt[bool]
	// any value Postprocess accepts, Set(nil) resets to the empty table
	Value           blocks.Opt[any]
	Label           blocks.Opt[string]
	Height          blocks.Opt[int]
	Wrap            blocks.Opt[bool]
	LineBreaks      blocks.Opt[bool]
	LatexDelimiters blocks.Opt[[]LatexDelimiter]
	Interactive     blocks.Opt[*bool]
}

// DataframeUpdate builds an update payload. Fields not set in opts carry blocks.Unchanged.
func DataframeUpdate(opts DataframeUpdateOpts) blocks.Update {
	u := blocks.MakeUpdate()
	u["visible"] = opts.Visible.PayloadVal()
	u["value"] = opts.Value.PayloadVal()
	u["label"] = opts.Label.PayloadVal()
	u["height"] = opts.Height.PayloadVal()
	u["wrap"] = opts.Wrap.PayloadVal()
	u["line_breaks"] = opts.LineBreaks.PayloadVal()
	u["latex_delimiters"] = opts.LatexDelimiters.PayloadVal()
	u["interactive"] = blocks.Unchanged
	if val, ok := opts.Interactive.Get(); ok {
		if val == nil {
			u["interactive"] = nil
		} else {
			u["interactive"] = *val
		}
	}
	return u
}

// ApplyUpdate replaces the fields set in u. A bad payload changes nothing.
func (df *Dataframe) ApplyUpdate(u blocks.Update) error {
	if !u.IsUpdate() {
		return utilds.Errorf(utilds.ErrCode_Update, "%s: payload is not an update", df)
	}
	var visible, wrap, lineBreaks bool
	var label string
	var height int
	var delims []LatexDelimiter
	var interactive *bool
	hasVisible, err := blocks.GetUpdateField(u, "visible", &visible)
	if err != nil {
		return err
	}
	hasLabel, err := blocks.GetUpdateField(u, "label", &label)
	if err != nil {
		return err
	}
	hasHeight, err := blocks.GetUpdateField(u, "height", &height)
	if err != nil {
		return err
	}
	hasWrap, err := blocks.GetUpdateField(u, "wrap", &wrap)
	if err != nil {
		return err
	}
	hasLineBreaks, err := blocks.GetUpdateField(u, "line_breaks", &lineBreaks)
	if err != nil {
		return err
	}
	hasDelims, err := blocks.GetUpdateField(u, "latex_delimiters", &delims)
	if err != nil {
		return err
	}
	hasInteractive, err := blocks.GetUpdateField(u, "interactive", &interactive)
	if err != nil {
		return err
	}
	var value *DataframeData
	hasValue := !u.IsUnchanged("value")
	if hasValue {
		value, err = df.Postprocess(u["value"])
		if err != nil {
			return utilds.MakeSubCodedError(utilds.ErrCode_Update, "value", fmt.Errorf("update field %q: %w", "value", err))
		}
	}
	if hasVisible {
		df.Visible = visible
	}
	if hasValue {
		df.Value = value
	}
	if hasLabel {
		df.Label = label
	}
	if hasHeight {
		df.Height = height
	}
	if hasWrap {
		df.Wrap = wrap
	}
	if hasLineBreaks {
		df.LineBreaks = lineBreaks
	}
	if hasDelims {
		if delims == nil {
			delims = DefaultDataframeDelimiters()
		}
		df.LatexDelimiters = delims
	}
	if hasInteractive {
		df.Interactive = interactive
	}
	return nil
}
