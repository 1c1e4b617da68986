// Package catalog loads the scenario catalog from YAML. The default content
// is embedded in the binary; a file on disk can replace it.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var embeddedScenarios []byte

// catalogFile is the on-disk shape of a catalog document.
type catalogFile struct {
	Scenarios []scenarioRecord `yaml:"scenarios"`
}

type scenarioRecord struct {
	ID               int          `yaml:"id"`
	BondType         string       `yaml:"bondType"`
	FaceValue        string       `yaml:"faceValue"`
	IssuePrice       string       `yaml:"issuePrice"`
	StatedRate       string       `yaml:"statedRate"`
	EffectiveRate    string       `yaml:"effectiveRate"`
	LifeYears        int          `yaml:"lifeYears"`
	PaymentFrequency string       `yaml:"paymentFrequency"`
	Task             string       `yaml:"task"`
	SuccessMessage   string       `yaml:"successMessage"`
	Solution         []lineRecord `yaml:"solution"`
	KeyCalculations  yaml.Node    `yaml:"keyCalculations"`
}

type lineRecord struct {
	Account string `yaml:"account"`
	Debit   string `yaml:"debit"`
	Credit  string `yaml:"credit"`
}

// Load returns the catalog at path, or the embedded catalog when path is
// empty. Solutions whose accounts differ only by case are logged, since
// account matching ignores case.
func Load(path string, logger *slog.Logger) (*domain.Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "catalog_loader"))

	data := embeddedScenarios
	source := "embedded"
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		source = path
	}

	scenarios, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}

	catalog, err := domain.NewCatalog(scenarios)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", source, err)
	}

	for _, s := range catalog.Scenarios() {
		if collisions := s.CaseVariantAccounts(); len(collisions) > 0 {
			log.Warn("solution holds accounts that differ only by case",
				slog.Int("scenario_id", s.ID),
				slog.Any("accounts", collisions))
		}
	}

	log.Info("scenario catalog loaded",
		slog.String("source", source),
		slog.Int("count", catalog.Size()))
	return catalog, nil
}

// Default returns the embedded catalog.
func Default() (*domain.Catalog, error) {
	return Load("", nil)
}

// Parse decodes a YAML catalog document into scenarios. It checks the
// document's shape and amounts but not the accounting rules, which
// domain.NewCatalog enforces.
func Parse(data []byte) ([]domain.Scenario, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenarios := make([]domain.Scenario, 0, len(file.Scenarios))
	for i, rec := range file.Scenarios {
		s, err := rec.toScenario()
		if err != nil {
			return nil, fmt.Errorf("scenario at index %d (id %d): %w", i, rec.ID, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (r scenarioRecord) toScenario() (domain.Scenario, error) {
	s := domain.Scenario{
		ID:               r.ID,
		BondType:         domain.BondType(strings.ToLower(strings.TrimSpace(r.BondType))),
		LifeYears:        r.LifeYears,
		PaymentFrequency: r.PaymentFrequency,
		Task:             strings.TrimSpace(r.Task),
		SuccessMessage:   strings.TrimSpace(r.SuccessMessage),
	}

	var err error
	if s.FaceValue, err = requiredDecimal("faceValue", r.FaceValue); err != nil {
		return s, err
	}
	if s.IssuePrice, err = requiredDecimal("issuePrice", r.IssuePrice); err != nil {
		return s, err
	}
	if s.StatedRate, err = optionalDecimal("statedRate", r.StatedRate); err != nil {
		return s, err
	}
	if s.EffectiveRate, err = optionalDecimal("effectiveRate", r.EffectiveRate); err != nil {
		return s, err
	}

	s.Solution = make([]domain.SolutionLine, 0, len(r.Solution))
	for _, line := range r.Solution {
		debit, err := optionalDecimal("debit", line.Debit)
		if err != nil {
			return s, err
		}
		credit, err := optionalDecimal("credit", line.Credit)
		if err != nil {
			return s, err
		}
		s.Solution = append(s.Solution, domain.SolutionLine{
			Account: strings.TrimSpace(line.Account),
			Debit:   debit,
			Credit:  credit,
		})
	}

	if s.KeyCalculations, err = decodeKeyCalculations(&r.KeyCalculations); err != nil {
		return s, err
	}
	return s, nil
}

// decodeKeyCalculations walks the mapping node directly so that the
// calculations keep the order in which they were written.
func decodeKeyCalculations(node *yaml.Node) (domain.KeyCalculations, error) {
	kc := domain.KeyCalculations{Items: []domain.Calculation{}}
	if node.Kind == 0 {
		return kc, nil
	}
	if node.Kind != yaml.MappingNode {
		return kc, fmt.Errorf("keyCalculations must be a mapping, line %d", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return kc, fmt.Errorf("keyCalculations.%s must be a scalar, line %d", key.Value, value.Line)
		}
		if key.Value == "overview" {
			kc.Overview = strings.TrimSpace(value.Value)
			continue
		}
		kc.Items = append(kc.Items, domain.Calculation{
			Label: labelFromKey(key.Value),
			Value: strings.TrimSpace(value.Value),
		})
	}
	return kc, nil
}

// labelFromKey turns a camelCase key into a title-cased label,
// e.g. presentValueOfInterest becomes "Present Value Of Interest".
func labelFromKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English, cases.NoLower).String(b.String())
}

func requiredDecimal(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a number: %w", field, raw, err)
	}
	return d, nil
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := requiredDecimal(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
