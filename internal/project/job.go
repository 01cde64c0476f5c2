package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ErrUnknownFormat is returned for job files that are neither YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown job file format")

// Job is a planning job file: the panel to cut from and the pieces to cut.
//
//	panel:
//	  projectTitle: Kitchen
//	  panelWidth: 2800
//	  panelHeight: 2070
//	  bladeThickness: 3.2
//	pieces:
//	  - name: Side
//	    width: 720
//	    height: 560
//	    quantity: 2
type Job struct {
	Panel  model.PanelConfig `json:"panel" yaml:"panel"`
	Pieces []model.Piece     `json:"pieces" yaml:"pieces"`
}

func jobFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", ext)
	}
}

// LoadJob reads a job file, YAML or JSON by extension. The panel section is
// decoded on top of defaults so a job only needs the settings it changes.
// Pieces without an id get a fresh one and a missing quantity means one.
func LoadJob(path string, defaults model.PanelConfig) (Job, error) {
	format, err := jobFormat(path)
	if err != nil {
		return Job{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, errors.Wrap(err, "read job")
	}

	job := Job{Panel: defaults}
	if format == "yaml" {
		err = yaml.Unmarshal(data, &job)
	} else {
		err = json.Unmarshal(data, &job)
	}
	if err != nil {
		return Job{}, errors.Wrapf(err, "parse job %s", path)
	}

	for i := range job.Pieces {
		if job.Pieces[i].ID == "" {
			job.Pieces[i].ID = uuid.New().String()[:8]
		}
		if job.Pieces[i].Quantity == 0 {
			job.Pieces[i].Quantity = 1
		}
	}
	return job, nil
}

// SaveJob writes a job file, YAML or JSON by extension.
func SaveJob(path string, job Job) error {
	format, err := jobFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == "yaml" {
		data, err = yaml.Marshal(job)
	} else {
		data, err = json.MarshalIndent(job, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encode job")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create job directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write job")
}
