package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML catalog seed.
type Fixture struct {
	SuperAdmin *AdminFixture     `yaml:"super_admin"`
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
}

type AdminFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type CategoryFixture struct {
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	Description  string `yaml:"description"`
	ImageURL     string `yaml:"image_url"`
	Parent       string `yaml:"parent"`
	DisplayOrder int    `yaml:"display_order"`
}

type ProductFixture struct {
	SKU               string `yaml:"sku"`
	Name              string `yaml:"name"`
	Slug              string `yaml:"slug"`
	Category          string `yaml:"category"`
	Description       string `yaml:"description"`
	BotanicalName     string `yaml:"botanical_name"`
	Price             string `yaml:"price"`
	ComparePrice      string `yaml:"compare_price"`
	Stock             int    `yaml:"stock"`
	MinStockThreshold *int   `yaml:"min_stock_threshold"`
	MaxStockThreshold *int   `yaml:"max_stock_threshold"`
	ReorderQuantity   *int   `yaml:"reorder_quantity"`
	CareLevel         string `yaml:"care_level"`
	LightRequirement  string `yaml:"light_requirement"`
	WaterRequirement  string `yaml:"water_requirement"`
	ImageURL          string `yaml:"image_url"`
	Featured          bool   `yaml:"featured"`
}

func loadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

func (p ProductFixture) prices() (decimal.Decimal, *decimal.Decimal, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("product %s: invalid price %q", p.SKU, p.Price)
	}
	if p.ComparePrice == "" {
		return price, nil, nil
	}
	compare, err := decimal.NewFromString(p.ComparePrice)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("product %s: invalid compare_price %q", p.SKU, p.ComparePrice)
	}
	return price, &compare, nil
}
