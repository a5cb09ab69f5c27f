package output

import "strings"

type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// formats 顺序即帮助文本中的顺序。
var formats = []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV, FormatAuto}

func IsValid(f Format) bool {
	for _, v := range formats {
		if f == v {
			return true
		}
	}
	return false
}

// FormatList 返回 "json|yaml|table|csv|auto"，用于 --format 帮助与 spec。
func FormatList() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}
