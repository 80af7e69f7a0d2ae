package stage

import "os"

// Cleanup collects the run's temporary payload files. Each run owns its temp
// files exclusively and must remove them on every exit path, including error
// exits; the command layer defers Run once around the whole pipeline.
type Cleanup struct {
	paths []string
}

// Add registers a path for removal.
func (c *Cleanup) Add(path string) {
	if c == nil || path == "" {
		return
	}
	c.paths = append(c.paths, path)
}

// Run removes every registered path. Removal failures are ignored: the paths
// live under the OS temp directory and the process is about to exit.
func (c *Cleanup) Run() {
	if c == nil {
		return
	}
	for _, p := range c.paths {
		_ = os.Remove(p)
	}
	c.paths = nil
}
