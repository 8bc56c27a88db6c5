package cli

import (
	"errors"
	"fmt"
)

var errNothingToRead = errors.New("board is empty; nothing to read")

type emptyTextError struct {
	command string
}

func (e emptyTextError) Error() string {
	return fmt.Sprintf("%s: text is required", e.command)
}

func errEmptyText(command string) error {
	return emptyTextError{command: command}
}
