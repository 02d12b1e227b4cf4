package classifier

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
)

// accuracyLine matches "<model name>: <percentage>%" at the start of a line.
var accuracyLine = regexp.MustCompile(`^(.+?):\s+([\d.]+)%`)

// ParseAccuracyTable reads model accuracies from a training summary.
// Lines that do not match are ignored.
func ParseAccuracyTable(r io.Reader) (domain.AccuracyTable, error) {
	var table domain.AccuracyTable
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := accuracyLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		acc, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		table.Set(strings.TrimSpace(m[1]), acc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadAccuracyTable parses the summary at path. A missing file yields an empty table.
func LoadAccuracyTable(path string) (domain.AccuracyTable, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAccuracyTable(f)
}
