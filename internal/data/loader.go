package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed catalog/*.json names/*.json
var dataFiles embed.FS

// ReferenceData holds all loaded reference data for the generators
type ReferenceData struct {
	Catalog CatalogData
	Names   NamesData
}

// CatalogData represents the structure of products.json
type CatalogData struct {
	DeviceBrands []string     `json:"device_brands"`
	RefillBrands []string     `json:"refill_brands"`
	Scents       []string     `json:"scents"`
	RefillSizesG []int        `json:"refill_sizes_g"`
	Devices      []string     `json:"devices"`
	Accessories  []string     `json:"accessories"`
	SpareParts   []string     `json:"spare_parts"`
	BulkRefills  []BulkRefill `json:"bulk_refills"`
}

// BulkRefill is a fixed industrial-size refill entry
type BulkRefill struct {
	Brand     string `json:"brand"`
	Scent     string `json:"scent"`
	GrammageG int    `json:"grammage_g"`
	Suffix    string `json:"suffix"`
}

// NamesData represents the structure of names.json
type NamesData struct {
	FirstNames   []string `json:"first_names"`
	LastNames    []string `json:"last_names"`
	EmailDomains []string `json:"email_domains"`
}

var (
	instance *ReferenceData
	once     sync.Once
	loadErr  error
)

// Load loads all reference data from embedded files
// This is thread-safe and will only load data once
func Load() (*ReferenceData, error) {
	once.Do(func() {
		instance = &ReferenceData{}
		loadErr = instance.loadAll()
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

func (r *ReferenceData) loadAll() error {
	data, err := dataFiles.ReadFile("catalog/products.json")
	if err != nil {
		return fmt.Errorf("failed to read products.json: %w", err)
	}
	if err := json.Unmarshal(data, &r.Catalog); err != nil {
		return fmt.Errorf("failed to parse products.json: %w", err)
	}

	data, err = dataFiles.ReadFile("names/names.json")
	if err != nil {
		return fmt.Errorf("failed to read names.json: %w", err)
	}
	if err := json.Unmarshal(data, &r.Names); err != nil {
		return fmt.Errorf("failed to parse names.json: %w", err)
	}

	return r.validate()
}

// validate ensures the embedded files carry enough material to generate from
func (r *ReferenceData) validate() error {
	switch {
	case len(r.Catalog.DeviceBrands) == 0:
		return fmt.Errorf("products.json: device_brands is empty")
	case len(r.Catalog.RefillBrands) == 0:
		return fmt.Errorf("products.json: refill_brands is empty")
	case len(r.Catalog.Scents) == 0:
		return fmt.Errorf("products.json: scents is empty")
	case len(r.Catalog.RefillSizesG) == 0:
		return fmt.Errorf("products.json: refill_sizes_g is empty")
	case len(r.Catalog.Devices) == 0:
		return fmt.Errorf("products.json: devices is empty")
	case len(r.Names.FirstNames) == 0:
		return fmt.Errorf("names.json: first_names is empty")
	case len(r.Names.LastNames) == 0:
		return fmt.Errorf("names.json: last_names is empty")
	case len(r.Names.EmailDomains) == 0:
		return fmt.Errorf("names.json: email_domains is empty")
	}
	return nil
}
