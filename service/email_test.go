package service

import (
	"strings"
	"testing"

	"cartera/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_Disabled(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: false})

	err := s.SendReportEmail("maria@example.com", "maria", "USD", "2026-08-01", "2026-08-31", &Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestEmailService_ReportBody(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true})

	rep := &Report{
		OpenClose: OpenClose{
			Income:      decimal.NewFromInt(3000),
			Expensive:   decimal.NewFromInt(-1200),
			Utility:     decimal.NewFromInt(1800),
			OpenBalance: decimal.NewFromInt(500),
		},
		ListExpensives: []CategoryAmount{
			{Category: "Rent", Amount: decimal.NewFromInt(-800)},
			{Category: "Groceries", Amount: decimal.NewFromInt(-400)},
		},
	}

	body := s.generateReportEmailBody("maria", "USD", "2026-08-01", "2026-08-31", rep)

	assert.Contains(t, body, "maria")
	assert.Contains(t, body, "2026-08-01")
	assert.Contains(t, body, "3000.00")
	assert.Contains(t, body, "-1200.00")
	assert.Contains(t, body, "Rent")
	assert.Contains(t, body, "Groceries")
	// the CSS width escape renders as a literal percent sign
	assert.Contains(t, body, "width: 100%;")
	assert.False(t, strings.Contains(body, "%%"))
}

func TestEmailService_ReportBody_TopFiveOnly(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true})

	rep := &Report{}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rep.ListExpensives = append(rep.ListExpensives, CategoryAmount{
			Category: name, Amount: decimal.NewFromInt(-10),
		})
	}

	body := s.generateReportEmailBody("maria", "USD", "2026-08-01", "2026-08-31", rep)
	assert.Contains(t, body, "<td>E</td>")
	assert.NotContains(t, body, "<td>F</td>")
	assert.NotContains(t, body, "<td>G</td>")
}
