package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// LoadEnvFromFile - Loads the environment variables from a file
func LoadEnvFromFile(filename string) error {
	if filename == "" {
		return nil
	}

	// gotenv trims trailing spaces but not TAB chars, so filter the lines first
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open env file %s: %w", filename, err)
	}
	defer f.Close()

	buf := filterLines(f)
	return gotenv.Apply(bytes.NewReader(buf.Bytes()))
}

func filterLines(r io.Reader) bytes.Buffer {
	var lf = []byte("\n")

	var out bytes.Buffer
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		// trim out trailing spaces AND tab chars
		trimmedLine := strings.TrimRight(scanner.Text(), " \t")
		out.Write([]byte(trimmedLine))
		out.Write(lf)
	}

	return out
}
