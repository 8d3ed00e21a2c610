package util

import "os"

// InDocker reports whether the process runs inside a container, which
// changes where the default database file lives.
func InDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
