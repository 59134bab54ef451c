package domain

// Task represents a unit of work in the build pipeline.
// Inputs and Outputs describe the files the task reads and writes; the graph
// uses Outputs to reject tasks that could write the same file concurrently.
type Task struct {
	Name         InternedString
	Inputs       []FileSet
	Outputs      []FileSet
	Dependencies []InternedString
}

// DependsOn reports whether name is a direct dependency of the task.
func (t *Task) DependsOn(name InternedString) bool {
	for _, dep := range t.Dependencies {
		if dep == name {
			return true
		}
	}
	return false
}
