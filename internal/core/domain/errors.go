package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrOverlappingOutputs is returned when two tasks that may run concurrently write to the same files.
	ErrOverlappingOutputs = zerr.New("tasks that may run concurrently declare overlapping outputs")

	// ErrUndefinedPath is returned when a path key is not part of the path tree.
	ErrUndefinedPath = zerr.New("undefined path")

	// ErrEmptyPath is returned when a path leaf is configured as an empty string.
	ErrEmptyPath = zerr.New("path must not be empty")

	// ErrInvalidMode is returned when the build mode is neither development nor production.
	ErrInvalidMode = zerr.New("invalid mode, expected 'development' or 'production'")

	// ErrInvalidPattern is returned when a glob pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrUnknownExclusion is returned when an image exclusion names no directory under the image root.
	ErrUnknownExclusion = zerr.New("image exclusion does not name an existing directory")

	// ErrInvalidExclusion is returned when an image exclusion is not a plain directory name.
	ErrInvalidExclusion = zerr.New("image exclusion must be a single directory name")

	// ErrInvalidReloadKind is returned when a watch binding declares an unknown reload kind.
	ErrInvalidReloadKind = zerr.New("invalid reload kind, expected 'full', 'css' or 'none'")

	// ErrConfigReadFailed is returned when the configuration file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration file")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse configuration file")

	// ErrInvalidChangeStrategy is returned when the change filter is neither mtime nor content.
	ErrInvalidChangeStrategy = zerr.New("invalid change strategy, expected 'mtime' or 'content'")

	// ErrInvalidScriptEntry is returned when a script entry has no name or path, or repeats a name.
	ErrInvalidScriptEntry = zerr.New("invalid script entry")

	// ErrInvalidPort is returned when the server port is outside 1-65535.
	ErrInvalidPort = zerr.New("invalid server port")

	// ErrEnvFileFailed is returned when the project .env file cannot be loaded.
	ErrEnvFileFailed = zerr.New("failed to load .env file")

	// ErrBuildExecutionFailed is returned when one or more build tasks fail.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned by the scheduler for a failed task.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrTransformFailed is returned when a file cannot be transformed by a task.
	ErrTransformFailed = zerr.New("failed to transform file")

	// ErrStyleCompileFailed is returned when the stylesheet cannot be compiled.
	ErrStyleCompileFailed = zerr.New("failed to compile stylesheet")

	// ErrBundleFailed is returned when the script bundler reports errors.
	ErrBundleFailed = zerr.New("failed to bundle scripts")

	// ErrDuplicateSymbol is returned when two sprite sources produce the same symbol id.
	ErrDuplicateSymbol = zerr.New("duplicate sprite symbol id")

	// ErrDuplicateImageTarget is returned when two source images convert to the same file.
	ErrDuplicateImageTarget = zerr.New("source images convert to the same file")

	// ErrImageEncodeFailed is returned when an image cannot be re-encoded.
	ErrImageEncodeFailed = zerr.New("failed to encode image")

	// ErrCleanFailed is returned when the destination tree cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean destination")

	// ErrServerFailed is returned when the development server stops unexpectedly.
	ErrServerFailed = zerr.New("development server failed")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrRemoteNotFound is returned when the deploy remote has no URL.
	ErrRemoteNotFound = zerr.New("deploy remote not found")

	// ErrPublishFailed is returned when the build output cannot be published.
	ErrPublishFailed = zerr.New("failed to publish build output")

	// ErrNothingToPublish is returned when the destination tree does not exist.
	ErrNothingToPublish = zerr.New("nothing to publish, run build first")
)
