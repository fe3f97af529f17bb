package domain

// InputFile is a single source file selected for testing
type InputFile struct {
	Path    string // Path as discovered (normalized)
	AbsPath string // Resolved absolute path
}

// Job is one test case and the workspace it exclusively owns during a run
type Job struct {
	Name      string    // Flat workspace name derived from the input path
	Workspace string    // Absolute path of the workspace directory
	Input     InputFile // Source file copied into the workspace
}
