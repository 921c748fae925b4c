// Package seed loads the chart of accounts and the tax table from YAML.
// An empty path selects the defaults embedded in the binary.
package seed

import (
	"embed"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

//go:embed defaults/*.yaml
var defaults embed.FS

var validate = validator.New()

type chartFile struct {
	Accounts []accountRow `yaml:"accounts" validate:"required,min=1,dive"`
}

type accountRow struct {
	Code        string `yaml:"code" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	Nature      string `yaml:"nature" validate:"omitempty,oneof=DEBIT CREDIT"`
}

type bracketFile struct {
	Brackets []bracketRow `yaml:"brackets" validate:"required,min=1,dive"`
}

type bracketRow struct {
	Order       int    `yaml:"order" validate:"min=1"`
	UpperLimit  string `yaml:"upper_limit" validate:"required,numeric"`
	NominalRate string `yaml:"nominal_rate" validate:"required,numeric"`
	Deduction   string `yaml:"deduction" validate:"omitempty,numeric"`
	ValidFrom   string `yaml:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo     string `yaml:"valid_to" validate:"omitempty,datetime=2006-01-02"`
}

func read(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile("defaults/" + fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// LoadChart reads a chart of accounts file.
func LoadChart(path string) ([]domain.ChartAccount, error) {
	data, err := read(path, "chart_of_accounts.yaml")
	if err != nil {
		return nil, err
	}
	return ParseChart(data)
}

// ParseChart decodes and validates chart rows. Hierarchy checks happen when the chart is seeded.
func ParseChart(data []byte) ([]domain.ChartAccount, error) {
	var file chartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing chart of accounts: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid chart of accounts: %w", err)
	}
	accounts := make([]domain.ChartAccount, 0, len(file.Accounts))
	for _, row := range file.Accounts {
		accounts = append(accounts, domain.ChartAccount{
			Code:        row.Code,
			Description: row.Description,
			Nature:      domain.AccountNature(row.Nature),
		})
	}
	return accounts, nil
}

// LoadTaxBrackets reads a tax bracket file.
func LoadTaxBrackets(path string) ([]domain.TaxBracket, error) {
	data, err := read(path, "tax_brackets.yaml")
	if err != nil {
		return nil, err
	}
	return ParseTaxBrackets(data)
}

func ParseTaxBrackets(data []byte) ([]domain.TaxBracket, error) {
	var file bracketFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tax brackets: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid tax brackets: %w", err)
	}
	brackets := make([]domain.TaxBracket, 0, len(file.Brackets))
	for _, row := range file.Brackets {
		b, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("tax bracket %d: %w", row.Order, err)
		}
		brackets = append(brackets, b)
	}
	return brackets, nil
}

func (r bracketRow) toDomain() (domain.TaxBracket, error) {
	upper, err := decimal.NewFromString(r.UpperLimit)
	if err != nil {
		return domain.TaxBracket{}, err
	}
	rate, err := decimal.NewFromString(r.NominalRate)
	if err != nil {
		return domain.TaxBracket{}, err
	}
	deduction := decimal.Zero
	if r.Deduction != "" {
		if deduction, err = decimal.NewFromString(r.Deduction); err != nil {
			return domain.TaxBracket{}, err
		}
	}
	from, err := time.Parse(time.DateOnly, r.ValidFrom)
	if err != nil {
		return domain.TaxBracket{}, err
	}
	b := domain.TaxBracket{
		Order:       r.Order,
		UpperLimit:  upper,
		NominalRate: rate,
		Deduction:   deduction,
		ValidFrom:   from,
	}
	if r.ValidTo != "" {
		to, err := time.Parse(time.DateOnly, r.ValidTo)
		if err != nil {
			return domain.TaxBracket{}, err
		}
		b.ValidTo = &to
	}
	return b, nil
}

// DefaultChart returns the embedded chart of accounts.
func DefaultChart() ([]domain.ChartAccount, error) { return LoadChart("") }

// DefaultTaxBrackets returns the embedded Simples Nacional table.
func DefaultTaxBrackets() ([]domain.TaxBracket, error) { return LoadTaxBrackets("") }
