package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

// Ensure RuleStore implements the interface.
var _ driven.RuleStore = (*RuleStore)(nil)

// RuleStore loads validation rules from user-editable files on disk.
// Rules are loaded from a configurable directory with fallback to embedded
// defaults.
//
// The store initialises lazily: the directory and default files are only
// created on first access, never in the constructor.
type RuleStore struct {
	mu       sync.RWMutex
	ruleDir  string
	cache    map[string][]string
	initOnce sync.Once
	initErr  error
}

// defaultRules contains the embedded default rule files.
var defaultRules = map[string]string{
	domain.RuleFileDatePairs: `# Date property pairs checked for ordering.
# Each line names a start property and an end property separated by whitespace.
startDate endDate
startTime endTime
dateCreated dateModified
dateCreated datePublished
datePublished dateModified
validFrom validThrough
birthDate deathDate
`,

	domain.RuleFileStructuralProperties: `# Properties never reported as extra in completeness reports.
@context
@type
@id
dct:conformsTo
http://purl.org/dc/terms/conformsTo
`,
}

// NewRuleStore creates a new file-based rule store.
// If ruleDir is empty, defaults to ~/.metaval/rules/.
func NewRuleStore(ruleDir string) (*RuleStore, error) {
	if ruleDir == "" {
		home, err := HomeDir("")
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		ruleDir = filepath.Join(home, "rules")
	}

	return &RuleStore{
		ruleDir: ruleDir,
		cache:   make(map[string][]string),
	}, nil
}

// DatePairs returns the date-pair rules. Lines with other than two fields
// are skipped with a warning.
func (s *RuleStore) DatePairs() ([]domain.DatePairRule, error) {
	lines, err := s.lines(domain.RuleFileDatePairs)
	if err != nil {
		return nil, err
	}
	pairs := make([]domain.DatePairRule, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			logger.Warn("Ignoring date rule %q: expected two property names", line)
			continue
		}
		pairs = append(pairs, domain.DatePairRule{Start: fields[0], End: fields[1]})
	}
	return pairs, nil
}

// StructuralProperties returns the property names never reported as extra.
func (s *RuleStore) StructuralProperties() (domain.PropertySet, error) {
	lines, err := s.lines(domain.RuleFileStructuralProperties)
	if err != nil {
		return nil, err
	}
	return domain.NewPropertySet(lines...), nil
}

// Reload clears the rule cache, forcing fresh loads from disk.
func (s *RuleStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string][]string)
	s.mu.Unlock()
}

// Dir returns the rule directory path.
func (s *RuleStore) Dir() string {
	return s.ruleDir
}

// lines returns the meaningful lines of a rule file.
func (s *RuleStore) lines(name string) ([]string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Debug("Rule directory unavailable, using embedded %s: %v", name, s.initErr)
		return parseLines(defaultRules[name]), nil
	}

	s.mu.RLock()
	if cached, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.ruleDir, name))
	if err != nil {
		if def, ok := defaultRules[name]; ok && os.IsNotExist(err) {
			return parseLines(def), nil
		}
		return nil, fmt.Errorf("load rules %q: %w", name, err)
	}
	lines := parseLines(string(data))

	s.mu.Lock()
	if existing, ok := s.cache[name]; ok {
		lines = existing
	} else {
		s.cache[name] = lines
	}
	s.mu.Unlock()
	return lines, nil
}

// initialise creates the rule directory and default files.
func (s *RuleStore) initialise() {
	if err := os.MkdirAll(s.ruleDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create rule directory: %w", err)
		return
	}
	for name, content := range defaultRules {
		path := filepath.Join(s.ruleDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default rules %q: %w", name, err)
				return
			}
		}
	}
}

// parseLines drops blank lines and # comments.
func parseLines(content string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
