package anomaly

import (
	"fmt"
	"regexp"
	"strings"
)

// VendorPattern describes one class of vendors whose invoices normally carry
// no recoverable VAT. Patterns match German and English synonyms against the
// combined sender-domain and product text.
type VendorPattern struct {
	Name  string
	Regex string
}

// compiledVendorPattern holds a compiled regex pattern with metadata.
type compiledVendorPattern struct {
	compiledRegex *regexp.Regexp
	VendorPattern
}

// DefaultNoVATPatterns returns the fixed set of vendor classes that are
// VAT-exempt or VAT-free in practice. The list is declarative on purpose:
// extending it means adding a row, not a branch.
func DefaultNoVATPatterns() []VendorPattern {
	return []VendorPattern{
		{
			Name:  "insurance",
			Regex: `versicherung|insurance|assekuranz`,
		},
		{
			Name:  "bank fees",
			Regex: `kontof(ü|ue)hrung|bankgeb(ü|ue)hr|account\s*fee|bank\s*(fee|charge)`,
		},
		{
			Name:  "rent",
			Regex: `\bmiete\b|vermietung|\brent(al)?\b|landlord`,
		},
		{
			Name:  "medical",
			Regex: `arzt|apotheke|krankenhaus|ordination|medical|doctor|pharmacy|clinic|hospital`,
		},
		{
			Name:  "tax",
			Regex: `steuer|finanzamt|\btax\b|revenue\s*office`,
		},
		{
			Name:  "gym membership",
			Regex: `fitness(studio)?|\bgym\b|mitgliedschaft.*sport|membership.*gym`,
		},
	}
}

func compileVendorPatterns(patterns []VendorPattern) ([]compiledVendorPattern, error) {
	compiled := make([]compiledVendorPattern, 0, len(patterns))
	for _, p := range patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Case-insensitive by default
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, compiledVendorPattern{
			VendorPattern: p,
			compiledRegex: regex,
		})
	}
	return compiled, nil
}
