package workflow

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityLoading Severity = "loading"
)

// StatusSink receives user-facing progress messages.
type StatusSink interface {
	Status(msg string, sev Severity)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(msg string, sev Severity)

func (f StatusFunc) Status(msg string, sev Severity) { f(msg, sev) }

// ClipboardSink accepts the raw report text.
type ClipboardSink interface {
	WriteText(text string) error
}

type nopStatus struct{}

func (nopStatus) Status(string, Severity) {}

const (
	msgFileSelected   = "Selected file: %s"
	msgNoFile         = "Choose a file first."
	msgUploading      = "Uploading, identifying entities..."
	msgSelectEntities = "Select entities, then submit again to generate the report."
	msgNoSelection    = "Select at least one entity."
	msgGenerating     = "Generating report, please wait..."
	msgReportReady    = "Report ready."
	msgChartsMissing  = "Chart renderer failed to load; showing the report only."
	msgNoReport       = "No report to copy."
	msgCopied         = "Report markdown copied."
	msgCopyFailed     = "Copy failed, copy the report manually."
)
