package domain

import "time"

// ProcessedCommand is one candidate command after sanitization and
// validation.
type ProcessedCommand struct {
	Original  string    `json:"original"`
	Sanitized string    `json:"sanitized"`
	Issues    []string  `json:"issues,omitempty"`
	Category  Category  `json:"category"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// FilteredCommands is the result of filtering one block of AI output.
type FilteredCommands struct {
	ExtractedCommands []string           `json:"extracted_commands"`
	SafeCommands      []ProcessedCommand `json:"safe_commands"`
	UnsafeCommands    []ProcessedCommand `json:"unsafe_commands"`
	Statistics        FilterStatistics   `json:"statistics"`
}

// FilterStatistics accumulates across every filtered response.
type FilterStatistics struct {
	ResponsesProcessed int               `json:"responses_processed"`
	CommandsExtracted  int               `json:"commands_extracted"`
	SafeCommands       int               `json:"safe_commands"`
	UnsafeCommands     int               `json:"unsafe_commands"`
	ByCategory         map[Category]int  `json:"by_category"`
	ByRiskLevel        map[RiskLevel]int `json:"by_risk_level"`
}

// ProcessingRecord summarizes one filtered response for the
// processing history ledger.
type ProcessingRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseLength int       `json:"response_length"`
	Extracted      int       `json:"extracted"`
	Safe           int       `json:"safe"`
	Unsafe         int       `json:"unsafe"`
}

// PipelineStatistics bundles the three component aggregates returned
// by the facade.
type PipelineStatistics struct {
	AI         FilterStatistics `json:"ai"`
	Execution  ExecutionStats   `json:"execution"`
	Monitoring Statistics       `json:"monitoring"`
}

// PipelineResult is the facade's answer to one AI response.
type PipelineResult struct {
	Filtered   FilteredCommands   `json:"filtered"`
	Executions []ExecutionRecord  `json:"executions"`
	Statistics PipelineStatistics `json:"statistics"`
}
