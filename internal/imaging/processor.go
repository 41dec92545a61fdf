package imaging

// Processor bundles the file-based operations the capture pipeline needs so
// they can be swapped out in tests.
type Processor struct{}

// Inspect calls the package-level Inspect.
func (Processor) Inspect(path string) (*ImageInfo, error) { return Inspect(path) }

// ResizeToWidth calls the package-level ResizeToWidth.
func (Processor) ResizeToWidth(path string, maxWidth int) ResizeOutcome {
	return ResizeToWidth(path, maxWidth)
}

// Analyze calls AnalyzeFile.
func (Processor) Analyze(path string) (*ScreenAnalysis, error) { return AnalyzeFile(path) }
