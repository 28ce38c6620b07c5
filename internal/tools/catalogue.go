package tools

import "github.com/copperotter/copperotter/internal/schema"

// CatalogueOptions carries the tunable limits for the built-in tool set.
type CatalogueOptions struct {
	MaxFileMB          int
	ExecTimeoutSeconds int
	SearchMaxResults   int
	FetchMaxChars      int
	Cron               CronService // nil disables schedule_task
}

// BuildCatalogue registers every built-in tool and returns the sealed
// registry. The returned registry is read-only.
func BuildCatalogue(opts CatalogueOptions) (*Registry, error) {
	b := NewRegistryBuilder().
		// Filesystem
		WithTool(NewReadFileTool(opts.MaxFileMB)).
		WithTool(NewWriteFileTool()).
		WithTool(NewAppendFileTool()).
		WithTool(NewDeleteFileTool()).
		WithTool(NewFindReplaceTool()).
		// Directories
		WithTool(NewListDirTool()).
		WithTool(NewCreateDirTool()).
		WithTool(NewSearchFilesTool()).
		WithTool(NewFileInfoTool()).
		// Git
		WithTool(NewGitStatusTool()).
		WithTool(NewGitDiffTool()).
		WithTool(NewGitLogTool()).
		WithTool(NewGitAddTool()).
		WithTool(NewGitCommitTool()).
		WithTool(NewGitBranchTool()).
		WithTool(NewGitPullTool()).
		WithTool(NewGitPushTool()).
		WithTool(NewGitStashTool()).
		WithTool(NewGitRemoteTool()).
		// Code analysis
		WithTool(NewAnalyzeCodeTool()).
		WithTool(NewFindTodosTool()).
		WithTool(NewCountCodeLinesTool()).
		// Structured data
		WithTool(NewReadJSONTool()).
		WithTool(NewWriteJSONTool()).
		WithTool(NewQueryJSONTool()).
		WithTool(NewReadCSVTool()).
		WithTool(NewWriteCSVTool()).
		WithTool(NewReadYAMLTool()).
		// Text
		WithTool(NewRegexSearchTool()).
		WithTool(NewRegexReplaceTool()).
		WithTool(NewFormatTextTool()).
		WithTool(NewEncodeBase64Tool()).
		WithTool(NewDecodeBase64Tool()).
		// Archives
		WithTool(NewCreateZipTool()).
		WithTool(NewExtractZipTool()).
		WithTool(NewListArchiveTool()).
		// Web
		WithTool(NewWebSearchTool(opts.SearchMaxResults)).
		WithTool(NewHTTPRequestTool()).
		WithTool(NewWebFetchTool(opts.FetchMaxChars)).
		// Shell & system
		WithTool(NewExecuteCommandTool(opts.ExecTimeoutSeconds)).
		WithTool(NewCurrentDirectoryTool()).
		WithTool(NewListProcessesTool()).
		WithTool(NewSystemStatsTool()).
		// Environment
		WithTool(NewEnvironmentInfoTool()).
		WithTool(NewInstallPackageTool())

	if opts.Cron != nil {
		b = b.WithTool(NewScheduleTaskTool(opts.Cron))
	}
	return b.Build()
}

// ensure every tool satisfies the schema contract
var (
	_ schema.Tool = (*ReadFileTool)(nil)
	_ schema.Tool = (*ScheduleTaskTool)(nil)
	_ schema.Tool = (*WebFetchTool)(nil)
	_ schema.Tool = (*ExecuteCommandTool)(nil)
)
