// Package cmd registers the dpane CLI commands with github.com/mxk/go-cli.
package cmd

import (
	"fmt"
	"strings"
)

// splitAssignment parses one "old=new" rename argument, as accepted by the
// rename command's variadic argument list.
func splitAssignment(s string) (old, new string, err error) {
	old, new, ok := strings.Cut(s, "=")
	if !ok || old == "" || new == "" {
		return "", "", fmt.Errorf("cmd: invalid rename argument %q, want old=new", s)
	}
	return old, new, nil
}
