package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/errors"
)

// Writer renders every command result as a JSend envelope.
type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.WriteEnvelope(format, jsend.Success(data))
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	return w.WriteEnvelope(format, ErrorEnvelope(xe))
}

// ErrorEnvelope converts an XError into the error envelope printed by the CLI and the
// MCP tools. code carries the process exit code, data the stable error code.
func ErrorEnvelope(xe *errors.XError) jsend.Envelope {
	if xe == nil {
		xe = errors.New(errors.CodeInternal, "unknown error", nil)
	}
	data := map[string]any{"error_code": xe.Code}
	if len(xe.Details) > 0 {
		data["details"] = xe.Details
	}
	return jsend.Error(xe.Message,
		jsend.WithCode(int64(errors.ExitCodeFor(xe.Code))),
		jsend.WithData(data),
	)
}

func (w Writer) WriteEnvelope(format Format, env jsend.Envelope) error {
	b, err := jsend.Encode(env)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, "failed to encode envelope", nil, err)
	}
	switch format {
	case FormatJSON:
		_, err = w.Out.Write(append(b, '\n'))
		return err
	case FormatYAML:
		y, err := jsonToYAML(b)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, "failed to render yaml", nil, err)
		}
		_, err = w.Out.Write(y)
		if err != nil {
			return err
		}
		if len(y) == 0 || y[len(y)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable, FormatCSV:
		// 重新解码一次，让任意 Go 值都变成通用 JSON 模型
		generic, err := jsend.Decode(b)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, "failed to normalize envelope", nil, err)
		}
		if format == FormatTable {
			return writeTable(w.Out, generic)
		}
		return writeCSV(w.Out, generic)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

// jsonToYAML 借助 yaml.Node 保留 JSON 中的字段顺序（status 在前）。
func jsonToYAML(b []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	resetStyle(&doc)
	return yaml.Marshal(&doc)
}

// resetStyle drops the flow/quoted styles inherited from JSON so the output is block YAML.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

type row struct {
	key   string
	value string
}

// tabular is a list of objects rendered as its own table under the key/value rows.
type tabular struct {
	name    string
	columns []string
	rows    []map[string]any
}

func collect(env jsend.Envelope) ([]row, []tabular) {
	rows := []row{{"status", string(env.Status())}}
	if msg, ok := env.Message(); ok {
		rows = append(rows, row{"message", msg})
	}
	if code, ok := env.Code(); ok {
		rows = append(rows, row{"code", fmt.Sprintf("%d", code)})
	}
	data, ok := env.Data()
	if !ok {
		return rows, nil
	}
	m, isMap := data.(map[string]any)
	if !isMap || len(m) == 0 {
		return append(rows, row{"data", formatValue(data)}), nil
	}

	var tables []tabular
	for _, k := range sortedKeys(m) {
		if t, ok := asTabular(k, m[k]); ok {
			tables = append(tables, t)
			continue
		}
		rows = append(rows, row{"data." + k, formatValue(m[k])})
	}
	return rows, tables
}

func asTabular(name string, v any) (tabular, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return tabular{}, false
	}
	seen := map[string]bool{}
	t := tabular{name: name}
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return tabular{}, false
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				t.columns = append(t.columns, k)
			}
		}
		t.rows = append(t.rows, obj)
	}
	sort.Strings(t.columns)
	return t, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%v", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func writeTable(out io.Writer, env jsend.Envelope) error {
	rows, tables := collect(env)
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.key, strings.ReplaceAll(r.value, "\n", " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, t := range tables {
		_, _ = fmt.Fprintf(out, "\n%s:\n", t.name)
		tw = tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, strings.Join(t.columns, "\t"))
		for _, obj := range t.rows {
			cells := make([]string, len(t.columns))
			for i, c := range t.columns {
				cells[i] = formatValue(obj[c])
			}
			_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "(%d rows)\n", len(t.rows))
	}
	return nil
}

func writeCSV(out io.Writer, env jsend.Envelope) error {
	rows, tables := collect(env)
	cw := csv.NewWriter(out)
	for _, r := range rows {
		_ = cw.Write([]string{r.key, r.value})
	}
	for _, t := range tables {
		_ = cw.Write(nil)
		_ = cw.Write(t.columns)
		for _, obj := range t.rows {
			cells := make([]string, len(t.columns))
			for i, c := range t.columns {
				cells[i] = formatValue(obj[c])
			}
			_ = cw.Write(cells)
		}
	}
	cw.Flush()
	return cw.Error()
}
