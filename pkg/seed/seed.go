// Package seed loads the portfolio document the fixture backend serves.
package seed

import (
	_ "embed"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

//go:embed default.json
var defaultSeed []byte

// Data is a complete portfolio document.
type Data struct {
	portfolio.PortfolioData
}

// Load reads the seed data from a JSON file.
func Load(path string) (data Data, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read seed file: %s", path)
		return data, err
	}

	data, err = Parse(fileData)
	if err != nil {
		err = errors.Wrapf(err, "seed file %s", path)
		return data, err
	}

	return data, err
}

// Default returns the embedded sample portfolio.
func Default() (data Data, err error) {
	data, err = Parse(defaultSeed)
	if err != nil {
		err = errors.Wrap(err, "embedded seed")
		return data, err
	}
	return data, err
}

// Parse decodes and validates a seed document. Stats always mirror the personal stats.
func Parse(raw []byte) (data Data, err error) {
	err = json.Unmarshal(raw, &data)
	if err != nil {
		err = errors.Wrap(err, "failed to parse seed JSON")
		return data, err
	}

	data.Stats = data.Personal.Stats

	err = data.Validate()
	if err != nil {
		err = errors.Wrap(err, "seed validation failed")
		return data, err
	}

	return data, err
}

// Validate checks that the seed data is well-formed.
func (d *Data) Validate() (err error) {
	if d.Personal.Name == "" {
		err = errors.New("personal name is required")
		return err
	}

	if len(d.Personal.Stats) == 0 {
		err = errors.New("at least one personal stat is required")
		return err
	}

	for i, exp := range d.Experience {
		if exp.ID == 0 {
			err = errors.Errorf("experience at index %d missing id", i)
			return err
		}
		if exp.Title == "" {
			err = errors.Errorf("experience %d missing title", exp.ID)
			return err
		}
	}

	for i, project := range d.Projects {
		if project.ID == 0 {
			err = errors.Errorf("project at index %d missing id", i)
			return err
		}
		if project.Title == "" {
			err = errors.Errorf("project %d missing title", project.ID)
			return err
		}
	}

	return err
}
