// Package config loads the externally authored tax configuration file and
// provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/kraxler/kraxler/internal/common"
	"github.com/kraxler/kraxler/internal/dates"
	"github.com/kraxler/kraxler/internal/model"
)

// File-shape structs. Dates travel as YYYY-MM-DD strings in the file and are
// parsed strictly on load; an empty end date means open-ended.
type fileConfig struct {
	Jurisdiction     string               `mapstructure:"jurisdiction"`
	Situations       []fileSituation      `mapstructure:"situations"`
	IncomeSources    []fileIncomeSource   `mapstructure:"income_sources"`
	AllocationRules  []fileAllocationRule `mapstructure:"allocation_rules"`
	CategoryDefaults map[string]string    `mapstructure:"category_defaults"`
}

type fileSituation struct {
	ID              string  `mapstructure:"id"`
	From            string  `mapstructure:"from"`
	To              string  `mapstructure:"to"`
	TelecomPercent  float64 `mapstructure:"telecom_percent"`
	InternetPercent float64 `mapstructure:"internet_percent"`
	VehiclePercent  float64 `mapstructure:"vehicle_percent"`
}

type fileIncomeSource struct {
	ID              string   `mapstructure:"id"`
	Name            string   `mapstructure:"name"`
	ValidFrom       string   `mapstructure:"valid_from"`
	ValidTo         string   `mapstructure:"valid_to"`
	TelecomPercent  *float64 `mapstructure:"telecom_percent"`
	InternetPercent *float64 `mapstructure:"internet_percent"`
	VehiclePercent  *float64 `mapstructure:"vehicle_percent"`
}

type fileAllocationRule struct {
	Scope       string           `mapstructure:"scope"`
	Allocations []fileAllocation `mapstructure:"allocations"`
}

type fileAllocation struct {
	SourceID string  `mapstructure:"source_id"`
	Percent  float64 `mapstructure:"percent"`
}

// Load reads a tax configuration from a YAML file. Only shape and date
// syntax are checked here; semantic validation is the validator's job.
func Load(path string) (*model.Config, error) {
	expanded := ExpandPath(path)
	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no tax configuration at %s", common.ErrMissingConfig, expanded)
	}

	v := viper.New()
	v.SetConfigFile(expanded)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read tax configuration: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode tax configuration: %w", err)
	}

	return fc.toModel()
}

func (fc fileConfig) toModel() (*model.Config, error) {
	cfg := &model.Config{
		Jurisdiction: fc.Jurisdiction,
	}

	for i, fs := range fc.Situations {
		from, err := dates.Parse(fs.From)
		if err != nil {
			return nil, fmt.Errorf("situations[%d].from: %w", i, err)
		}
		to, err := optionalDate(fs.To)
		if err != nil {
			return nil, fmt.Errorf("situations[%d].to: %w", i, err)
		}
		cfg.Situations = append(cfg.Situations, model.Situation{
			ID:              fs.ID,
			From:            from,
			To:              to,
			TelecomPercent:  fs.TelecomPercent,
			InternetPercent: fs.InternetPercent,
			VehiclePercent:  fs.VehiclePercent,
		})
	}

	for i, fsrc := range fc.IncomeSources {
		from, err := dates.Parse(fsrc.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("income_sources[%d].valid_from: %w", i, err)
		}
		to, err := optionalDate(fsrc.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("income_sources[%d].valid_to: %w", i, err)
		}
		cfg.IncomeSources = append(cfg.IncomeSources, model.IncomeSource{
			ID:                      fsrc.ID,
			Name:                    fsrc.Name,
			ValidFrom:               from,
			ValidTo:                 to,
			TelecomPercentOverride:  fsrc.TelecomPercent,
			InternetPercentOverride: fsrc.InternetPercent,
			VehiclePercentOverride:  fsrc.VehiclePercent,
		})
	}

	for _, fr := range fc.AllocationRules {
		rule := model.AllocationRule{Scope: fr.Scope}
		for _, fa := range fr.Allocations {
			rule.Allocations = append(rule.Allocations, model.Allocation{
				SourceID: fa.SourceID,
				Percent:  fa.Percent,
			})
		}
		cfg.AllocationRules = append(cfg.AllocationRules, rule)
	}

	if len(fc.CategoryDefaults) > 0 {
		cfg.CategoryDefaults = make(map[model.DeductibleCategory]string, len(fc.CategoryDefaults))
		for cat, srcID := range fc.CategoryDefaults {
			cfg.CategoryDefaults[model.DeductibleCategory(cat)] = srcID
		}
	}

	return cfg, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dates.Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
