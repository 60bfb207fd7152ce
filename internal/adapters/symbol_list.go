package adapters

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// SymbolListAdapter reads exported symbol names, one per line. Lines in nm
// format are accepted: the last field is taken as the name.
type SymbolListAdapter struct{}

func NewSymbolListAdapter() SymbolListAdapter {
	return SymbolListAdapter{}
}

func (a SymbolListAdapter) ReadSymbols(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("symbol list not found").
			WithCause(err)
	}
	return parseSymbolList(content)
}

func parseSymbolList(content []byte) ([]string, error) {
	var symbols []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		name := fields[len(fields)-1]
		if strings.HasSuffix(name, ":") {
			// nm prints "file.o:" headers when given several objects.
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		symbols = append(symbols, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read symbol list").
			WithCause(err)
	}
	return symbols, nil
}
