package ui

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

const (
	tableHeaderFolderConstant       = "FOLDER"
	tableHeaderBranchConstant       = "BRANCH"
	tableHeaderStatusConstant       = "STATUS"
	tablePaddingConstant            = 2
	missingValuePlaceholderConstant = "--"
	csvHeaderFolderNameConstant     = "folder_name"
	csvHeaderBranchConstant         = "branch"
	csvHeaderStatusConstant         = "status"
	csvHeaderReasonConstant         = "reason"
	jsonIndentConstant              = "  "
	unsupportedFormatTemplate       = "%w: %s"
)

// ErrUnsupportedFormat indicates an output format the renderer does not know.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// OutputFormat selects how a report is rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatCSV   OutputFormat = "csv"
	OutputFormatJSON  OutputFormat = "json"
)

// SupportedOutputFormats lists output formats in presentation order.
func SupportedOutputFormats() []string {
	return []string{string(OutputFormatTable), string(OutputFormatCSV), string(OutputFormatJSON)}
}

// ReportRow is one rendered repository.
type ReportRow struct {
	FolderName  string     `json:"folder_name"`
	Path        string     `json:"path"`
	Branch      string     `json:"branch"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Failure     string     `json:"failure,omitempty"`
	StatusLabel string     `json:"-"`
	Tone        StatusTone `json:"-"`
}

// ReportRenderer writes report rows in a single output format.
type ReportRenderer struct {
	format OutputFormat
}

// NewReportRenderer constructs a renderer for format.
func NewReportRenderer(format OutputFormat) (*ReportRenderer, error) {
	switch format {
	case OutputFormatTable, OutputFormatCSV, OutputFormatJSON:
		return &ReportRenderer{format: format}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplate, ErrUnsupportedFormat, format)
	}
}

// Render writes rows to writer in their given order.
func (renderer *ReportRenderer) Render(writer io.Writer, rows []ReportRow) error {
	switch renderer.format {
	case OutputFormatCSV:
		return renderCSV(writer, rows)
	case OutputFormatJSON:
		return renderJSON(writer, rows)
	default:
		renderTable(writer, rows)
		return nil
	}
}

func renderTable(writer io.Writer, rows []ReportRow) {
	styles := newReportStyles(writer)

	reportTable := table.New(tableHeaderFolderConstant, tableHeaderBranchConstant, tableHeaderStatusConstant)
	reportTable.WithWriter(writer)
	reportTable.WithPadding(tablePaddingConstant)
	reportTable.WithWidthFunc(lipgloss.Width)
	reportTable.WithFirstColumnFormatter(func(format string, values ...interface{}) string {
		return styles.folder.Render(fmt.Sprintf(format, values...))
	})

	for _, row := range rows {
		reportTable.AddRow(row.FolderName, valueOrPlaceholder(row.Branch), styles.renderStatus(row.Tone, valueOrPlaceholder(row.StatusLabel)))
	}
	reportTable.Print()
}

func renderCSV(writer io.Writer, rows []ReportRow) error {
	csvWriter := csv.NewWriter(writer)
	header := []string{
		csvHeaderFolderNameConstant,
		csvHeaderBranchConstant,
		csvHeaderStatusConstant,
		csvHeaderReasonConstant,
	}
	if writeError := csvWriter.Write(header); writeError != nil {
		return writeError
	}
	for _, row := range rows {
		if writeError := csvWriter.Write([]string{row.FolderName, row.Branch, row.Status, row.Reason}); writeError != nil {
			return writeError
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func renderJSON(writer io.Writer, rows []ReportRow) error {
	if rows == nil {
		rows = []ReportRow{}
	}
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndentConstant)
	return encoder.Encode(rows)
}

func valueOrPlaceholder(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return missingValuePlaceholderConstant
	}
	return value
}
