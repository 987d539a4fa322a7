package domain

// Manifest is the loaded build description handed to the engine by a
// configuration loader or generator. The engine never inspects how the
// tasks were produced.
type Manifest struct {
	// TargetDir is the directory holding build artifacts and the build log.
	TargetDir string

	// Tasks is the flat collection of declared work items.
	Tasks *TaskSet
}
