package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readSource returns the source directory typed in an interactive terminal,
// otherwise the current directory is used.
func readSource(in io.Reader, out io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ".", nil
	}
	return promptSource(in, out)
}

// promptSource asks for the source directory, an empty answer is the current directory.
// Quotes around a path, as added by a drag and drop into a terminal, are removed.
func promptSource(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Directory of archives to extract [.]: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	s := strings.TrimSpace(line)
	s = strings.Trim(s, `"'`)
	if s == "" {
		return ".", nil
	}
	return s, nil
}
