// Package bank loads and validates the static per-industry question banks.
// Banks are embedded at compile time, validated on load, and returned as
// immutable value objects shared read-only across sessions.
package bank

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/apexintel/quiz-engine/internal/types"
)

//go:embed banks/*.json bank.schema.json
var bankFiles embed.FS

// DefaultIndustry is the bank served when a requested industry is unknown.
const DefaultIndustry = "default"

// ErrBankNotFound is returned by Load for industries with no embedded bank.
var ErrBankNotFound = errors.New("industry bank not found")

// ValidationError reports structural problems in a bank definition. Bank
// errors are configuration mistakes and fail fast at load time.
type ValidationError struct {
	Industry string
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("bank %q failed validation:\n", e.Industry))
	for i, p := range e.Problems {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, p))
	}
	return sb.String()
}

var (
	schemaOnce   sync.Once
	bankSchema   *gojsonschema.Schema
	schemaFailed error
)

// loadSchema compiles the embedded bank JSON Schema once per process.
func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := bankFiles.ReadFile("bank.schema.json")
		if err != nil {
			schemaFailed = fmt.Errorf("failed to read bank schema: %w", err)
			return
		}
		bankSchema, schemaFailed = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if schemaFailed != nil {
			schemaFailed = fmt.Errorf("failed to compile bank schema: %w", schemaFailed)
		}
	})
	return bankSchema, schemaFailed
}

// ListIndustries returns the slugs of every embedded bank, sorted.
func ListIndustries() ([]string, error) {
	entries, err := bankFiles.ReadDir("banks")
	if err != nil {
		return nil, fmt.Errorf("failed to read bank directory: %w", err)
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") {
			slugs = append(slugs, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Load returns the validated bank for an industry slug, or ErrBankNotFound.
// The loader is stateless: repeated calls return equivalent data.
func Load(industry string) (*types.IndustryQuestionBank, error) {
	data, err := bankFiles.ReadFile("banks/" + industry + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBankNotFound, industry)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to validate bank %s: %w", industry, err)
	}
	if !result.Valid() {
		ve := &ValidationError{Industry: industry}
		for _, desc := range result.Errors() {
			ve.Problems = append(ve.Problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, ve
	}

	var b types.IndustryQuestionBank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bank %s: %w", industry, err)
	}
	if err := validateBank(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadOrDefault returns the bank for industry, falling back to the default
// bank when the industry is unknown. An unsupported industry must not break
// the interview.
func LoadOrDefault(industry string) (*types.IndustryQuestionBank, error) {
	if industry != "" {
		b, err := Load(industry)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrBankNotFound) {
			return nil, err
		}
	}
	return Load(DefaultIndustry)
}

// PreloadAll loads and validates every embedded bank concurrently. Used at
// server startup so a malformed bank fails the process immediately.
func PreloadAll() (map[string]*types.IndustryQuestionBank, error) {
	slugs, err := ListIndustries()
	if err != nil {
		return nil, err
	}

	banks := make(map[string]*types.IndustryQuestionBank, len(slugs))
	var mu sync.Mutex
	var g errgroup.Group
	for _, slug := range slugs {
		g.Go(func() error {
			b, err := Load(slug)
			if err != nil {
				return err
			}
			mu.Lock()
			banks[slug] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return banks, nil
}

// validateBank enforces the structural invariants the schema cannot express:
// id uniqueness, known categories, and resolvable deep-dive references.
func validateBank(b *types.IndustryQuestionBank) error {
	ve := &ValidationError{Industry: b.Industry}

	if b.Industry == "" {
		ve.Problems = append(ve.Problems, "industry slug is empty")
	}
	if len(b.Questions) == 0 {
		ve.Problems = append(ve.Problems, "bank has no questions")
	}

	seen := make(map[string]bool, len(b.Questions))
	for i, q := range b.Questions {
		if q.ID == "" {
			ve.Problems = append(ve.Problems, fmt.Sprintf("questions[%d] has empty id", i))
			continue
		}
		if seen[q.ID] {
			ve.Problems = append(ve.Problems, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		seen[q.ID] = true
		if !types.ValidInputType(q.InputType) {
			ve.Problems = append(ve.Problems, fmt.Sprintf("question %q has unknown input_type %q", q.ID, q.InputType))
		}
		if len(q.TargetCategories) == 0 {
			ve.Problems = append(ve.Problems, fmt.Sprintf("question %q has no target categories", q.ID))
		}
		for _, cat := range q.TargetCategories {
			if !types.IsKnownCategory(cat) {
				ve.Problems = append(ve.Problems, fmt.Sprintf("question %q targets unknown category %q", q.ID, cat))
			}
		}
	}

	for _, dd := range b.DeepDiveTemplates {
		if dd.Trigger == "" {
			ve.Problems = append(ve.Problems, "deep-dive template with empty trigger")
		}
		if !seen[dd.QuestionID] {
			ve.Problems = append(ve.Problems, fmt.Sprintf("deep-dive template %q references unknown question %q", dd.Trigger, dd.QuestionID))
		}
	}

	for _, wt := range b.WovenConfirmationTemplates {
		if !types.IsKnownCategory(wt.Category) {
			ve.Problems = append(ve.Problems, fmt.Sprintf("woven template %q has unknown category %q", wt.ID, wt.Category))
		}
		if !strings.Contains(wt.Text, "{{fact}}") {
			ve.Problems = append(ve.Problems, fmt.Sprintf("woven template %q is missing the {{fact}} placeholder", wt.ID))
		}
		if !types.ValidInputType(wt.InputType) {
			ve.Problems = append(ve.Problems, fmt.Sprintf("woven template %q has unknown input_type %q", wt.ID, wt.InputType))
		}
	}

	if len(ve.Problems) > 0 {
		return ve
	}
	return nil
}
